package ui

import (
	"html/template"

	"eisenhower-board/internal/board"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"panel": func(panels map[ViewID]template.HTML, id ViewID) template.HTML { return panels[id] },
		"descending": func(desc bool) string {
			if desc {
				return "desc"
			}
			return "asc"
		},
		"staffSortLabel": func(k board.StaffSortKey) string {
			if k == board.StaffByDepartment {
				return "部署"
			}
			return "名前"
		},
	}
	return template.Must(template.New("ui").Funcs(funcs).Parse(pageTemplate + viewTemplates))
}

const viewTemplates = `
{{define "avatar"}}{{if .Photo}}<img class="avatar" src="/static/uploads/{{.Photo}}" alt="">{{else}}<span class="avatar avatar--initial">{{.Initial}}</span>{{end}}{{end}}

{{define "card"}}<article class="card" draggable="true" data-task-id="{{.ID}}" data-drag="{{.DragPayload}}">
  <header><h3>{{.Title}}</h3><span class="badge {{.StatusClass}}">{{.Status}}</span></header>
  {{if .Description}}<p class="card__desc">{{.Description}}</p>{{end}}
  <footer>
    {{if .OwnerPhoto}}<img class="avatar" src="/static/uploads/{{.OwnerPhoto}}" alt="">{{else}}<span class="avatar avatar--initial">{{.OwnerInitial}}</span>{{end}}
    <span class="card__owner">{{.OwnerName}}</span>
    <span class="priority {{.PriorityClass}}">{{.Priority}}</span>
    {{if .DueDate}}<time>{{.DueDate}}</time>{{end}}
  </footer>
</article>{{end}}

{{define "board"}}<div class="board">
{{range .Quadrants}}<section class="quadrant quadrant--{{.Number}}" data-quadrant="{{.Number}}">
  <h2><span class="face">{{.Face.Emoji}}</span> {{.Label}} <small>{{.Face.Caption}}</small></h2>
  {{if .Empty}}<p class="placeholder">{{.Placeholder}}</p>{{else}}{{range .Cards}}{{template "card" .}}{{end}}{{end}}
</section>
{{end}}</div>{{end}}

{{define "staff"}}<div class="roster" data-sort="{{staffSortLabel .Sort.Key}}" data-order="{{descending .Sort.Desc}}">
{{if .Empty}}<p class="placeholder">{{.Placeholder}}</p>{{else}}<ul>
{{range .Members}}<li class="staff" data-staff-id="{{.ID}}">{{template "avatar" .}}<span class="staff__name">{{.Name}}</span><span class="staff__dept">{{.Department}}</span><span class="staff__count">{{.ActiveCount}}</span></li>
{{end}}</ul>{{end}}
</div>{{end}}

{{define "overview"}}<div class="overview">
<p class="overview__total">全{{.Total}}件 / 危険 {{.DangerCount}} / 暇 {{.IdleCount}}</p>
{{range .Quadrants}}<section class="overview__quadrant quadrant--{{.Number}}">
  <h3>{{.Face.Emoji}} {{.Label}} <span class="count">{{.Count}}</span></h3>
  {{if .Empty}}<p class="placeholder">-</p>{{else}}<ul>{{range .Owners}}<li>{{template "avatar" .}}{{.Name}} <span class="count">{{.Count}}</span></li>{{end}}{{if .Unassigned}}<li>- <span class="count">{{.Unassigned}}</span></li>{{end}}</ul>{{end}}
</section>
{{end}}</div>{{end}}

{{define "severity"}}<div class="severity severity--q{{.Quadrant}}">
<h3>{{.Label}}</h3>
{{if .Empty}}<p class="placeholder">{{.Placeholder}}</p>{{else}}<ul>
{{range .Entries}}<li class="{{if .Critical}}severity__entry--critical{{else}}severity__entry{{end}}">{{template "avatar" .}}{{.Name}} <small>{{.Department}}</small> <span class="count">{{.Count}}</span></li>
{{end}}</ul>{{end}}
</div>{{end}}

{{define "completed"}}<div class="completed" data-sort="{{.Sort.Key}}" data-order="{{descending .Sort.Desc}}">
{{if .Empty}}<p class="placeholder">{{.Placeholder}}</p>{{else}}{{range .Items}}{{template "card" .}}{{end}}{{end}}
</div>{{end}}
`

const pageTemplate = `{{define "page"}}<!doctype html>
<html lang="ja">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body>
  <header class="topbar">
    <h1>{{.Title}}</h1>
    <button type="button" data-open="task-form">タスク追加</button>
  </header>
  <main>
    {{.Board}}
    <nav class="tabs">{{range .Tabs}}<button type="button" class="tab{{if .Active}} tab--active{{end}}" data-tab="{{.ID}}">{{.Label}}</button>{{end}}</nav>
    {{$panels := .Panels}}
    {{range .Tabs}}<section class="panel" id="panel-{{.ID}}"{{if not .Active}} hidden{{end}}>{{panel $panels .ID}}</section>
    {{end}}
  </main>
  <dialog id="task-form">
    <form method="dialog">
      <label>タイトル <input name="title" maxlength="80" required></label>
      <label>説明 <textarea name="description" maxlength="500"></textarea></label>
      <label>担当者 <select name="owner_id" required>{{range .Staff}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select></label>
      <label>状態 <select name="status">{{range .Statuses}}<option>{{.}}</option>{{end}}</select></label>
      <label>優先度 <select name="priority">{{range .Priorities}}<option>{{.}}</option>{{end}}</select></label>
      <label>期限 <input type="date" name="due_date"></label>
      <p class="form__error" hidden></p>
      <button value="save">保存</button>
    </form>
  </dialog>
  <script id="initial-payload" type="application/json">{{.Payload}}</script>
  <script src="/static/app.js"></script>
</body>
</html>{{end}}`
