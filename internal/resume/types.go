package resume

import "strings"

// InputID 标识表单中的一个输入框。
type InputID string

// PreviewID 标识预览区域中的一个显示槽位。
type PreviewID string

// Field 描述一条输入到预览的静态映射，以及预览为空时的占位文本。
type Field struct {
	Input     InputID
	Preview   PreviewID
	Default   string
	Multiline bool
}

// Fields 是固定的字段映射表，顺序即页面顺序。
var Fields = []Field{
	{Input: "name", Preview: "preview-name", Default: "Your Name"},
	{Input: "title", Preview: "preview-title", Default: "Professional Title"},
	{Input: "phone", Preview: "preview-phone", Default: "(555) 123-4567"},
	{Input: "email", Preview: "preview-email", Default: "your.email@example.com"},
	{Input: "location", Preview: "preview-location", Default: "City, State"},
	{Input: "link", Preview: "preview-link", Default: "linkedin.com/in/yourprofile"},
	{Input: "summary", Preview: "preview-summary", Default: "A brief summary of your professional background and goals."},
	{Input: "experience", Preview: "preview-experience", Default: "Your work experience will appear here.", Multiline: true},
	{Input: "education", Preview: "preview-education", Default: "Your education will appear here.", Multiline: true},
	{Input: "skills", Preview: "preview-skills", Default: "Your skills will appear here.", Multiline: true},
}

var (
	byInput   = make(map[InputID]Field, len(Fields))
	byPreview = make(map[PreviewID]Field, len(Fields))
)

func init() {
	for _, f := range Fields {
		if _, dup := byInput[f.Input]; dup {
			panic("resume: duplicate input id " + string(f.Input))
		}
		if _, dup := byPreview[f.Preview]; dup {
			panic("resume: duplicate preview id " + string(f.Preview))
		}
		byInput[f.Input] = f
		byPreview[f.Preview] = f
	}
}

// Lookup 根据输入框 ID 查找映射；未知 ID 返回 false。
func Lookup(id InputID) (Field, bool) {
	f, ok := byInput[id]
	return f, ok
}

// DefaultValue 返回预览槽位的占位文本。
func DefaultValue(id PreviewID) (string, bool) {
	f, ok := byPreview[id]
	if !ok {
		return "", false
	}
	return f.Default, true
}

// InputIDs 按页面顺序返回全部输入框 ID。
func InputIDs() []InputID {
	ids := make([]InputID, 0, len(Fields))
	for _, f := range Fields {
		ids = append(ids, f.Input)
	}
	return ids
}

// Resolve 返回去除首尾空白后的值；为空时回落到字段的占位文本。
func Resolve(f Field, raw string) string {
	if v := strings.TrimSpace(raw); v != "" {
		return v
	}
	return f.Default
}

// Theme is the cosmetic stylesheet choice.
type Theme string

const (
	ThemeModern  Theme = "modern"
	ThemeClassic Theme = "classic"
)

// DefaultTheme is used when nothing has been persisted.
const DefaultTheme = ThemeModern

// Themes lists the selectable themes in selector order.
var Themes = []Theme{ThemeModern, ThemeClassic}

// ParseTheme accepts only the known theme names.
func ParseTheme(name string) (Theme, bool) {
	switch Theme(name) {
	case ThemeModern, ThemeClassic:
		return Theme(name), true
	default:
		return "", false
	}
}

// Stylesheet returns the asset name that carries the theme's look.
func (t Theme) Stylesheet() string {
	return "theme-" + string(t) + ".css"
}
