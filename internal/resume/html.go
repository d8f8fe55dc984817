package resume

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// 用户输入一律按纯文本处理：先转义再过严格策略，形如标签的文字原样显示。
var textPolicy = bluemonday.StrictPolicy()

func escapeText(s string) string {
	return textPolicy.Sanitize(html.EscapeString(s))
}

// RenderHTML 生成预览槽位的 HTML 片段。
func RenderHTML(r Rendered) string {
	if !r.IsBlocks() {
		return escapeText(r.Text)
	}

	var sb strings.Builder
	for _, b := range r.Blocks {
		class := "plain-item"
		if b.Kind == BlockBullet {
			class = "bullet-item"
		}
		sb.WriteString(`<div class="`)
		sb.WriteString(class)
		sb.WriteString(`">`)
		sb.WriteString(escapeText(b.Text))
		sb.WriteString("</div>")
	}
	return sb.String()
}
