package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Reminders</title>
</head>
<body>
<h1>New reminder</h1>
<form method="post" action="/">
<p><label>User ID <input name="user_id" required></label></p>
<p><label>Description <input name="description" required></label></p>
<p><label>Date <input type="date" name="date" required></label></p>
<p><label>Time <input type="time" name="time" required></label></p>
<p><button type="submit">Add</button></p>
</form>
</body>
</html>`

const listHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Reminders for {{.UserID}}</title>
</head>
<body>
<h1>Reminders for user {{.UserID}}</h1>
{{if .Reminders}}
<ul>
{{range .Reminders}}<li>ID: {{.ID}} | {{.Description}} | {{.RemindAt.Format "2006-01-02 15:04"}}</li>
{{end}}</ul>
{{else}}
<p>No reminders.</p>
{{end}}
<p><a href="/">Add a reminder</a></p>
</body>
</html>`
