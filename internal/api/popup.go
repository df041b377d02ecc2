package api

import (
	"bytes"
	"html/template"

	"github.com/gin-gonic/gin"
)

// The popup's only job after the provider redirect is to close itself; the
// actual result travels through status polling. Some browsers refuse
// window.close() for windows they consider user-opened, hence the fallback
// text.
var popupTmpl = template.Must(template.New("popup").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<p>{{.Message}}</p>
<script>window.close();</script>
</body>
</html>
`))

func (h *Handler) renderPopup(c *gin.Context, status int, title, message string) {
	var buf bytes.Buffer
	_ = popupTmpl.Execute(&buf, struct {
		Title   string
		Message string
	}{Title: title, Message: message})
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
