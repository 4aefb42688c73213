package models

// QuadrantFace is display-only metadata shown in a quadrant header.
type QuadrantFace struct {
	Emoji   string `json:"emoji"`
	Caption string `json:"caption"`
}

// Presentation holds the lookup tables the board needs to render. It is
// supplied once with the initial payload and treated as read-only.
type Presentation struct {
	QuadrantLabels map[int]string       `json:"quadrant_labels"`
	QuadrantFaces  map[int]QuadrantFace `json:"quadrant_faces,omitempty"`
	StatusColors   map[string]string    `json:"status_colors"`
}

// BoardPayload is the JSON blob embedded in the initial page load.
type BoardPayload struct {
	Tasks []Task  `json:"tasks"`
	Staff []Staff `json:"staff"`
	Presentation
}

// DefaultPresentation returns the labels, faces and status classes the
// server ships with.
func DefaultPresentation() Presentation {
	return Presentation{
		QuadrantLabels: map[int]string{
			1: "重要かつ緊急",
			2: "重要だが緊急ではない",
			3: "緊急だが重要ではない",
			4: "重要でも緊急でもない",
		},
		QuadrantFaces: map[int]QuadrantFace{
			1: {Emoji: "🔥", Caption: "Do now"},
			2: {Emoji: "🧠", Caption: "Plan it"},
			3: {Emoji: "⚠", Caption: "Delegate"},
			4: {Emoji: "🌿", Caption: "Eliminate/Relax"},
		},
		StatusColors: map[string]string{
			string(StatusTodo):       "badge--todo",
			string(StatusInProgress): "badge--doing",
			string(StatusDone):       "badge--done",
		},
	}
}

// StatusOptions lists the statuses in display order.
func StatusOptions() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusDone}
}

// PriorityOptions lists the priorities in display order.
func PriorityOptions() []TaskPriority {
	return []TaskPriority{PriorityHigh, PriorityMedium, PriorityLow}
}
