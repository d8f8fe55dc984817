package resume

import "strings"

// BlockKind 区分多行字段中的条目类型。
type BlockKind string

const (
	BlockPlain  BlockKind = "plain"
	BlockBullet BlockKind = "bullet"
)

// Block 是多行字段中渲染出的一行。
type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`
}

// Rendered 是预览槽位的内容：Blocks 为 nil 时按纯文本 Text 显示。
type Rendered struct {
	Text   string  `json:"text,omitempty"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Plain 包装纯文本内容。
func Plain(text string) Rendered {
	return Rendered{Text: text}
}

// IsBlocks 报告内容是否为分行渲染。
func (r Rendered) IsBlocks() bool {
	return r.Blocks != nil
}

// FormatMultiline 将多行文本拆成逐行的块：去除每行首尾空白并丢弃空行，
// 以 "•" 或 "-" 开头的行标记为 bullet。空内容原样按纯文本返回。
func FormatMultiline(content string) Rendered {
	if content == "" {
		return Plain(content)
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kind := BlockPlain
		if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") {
			kind = BlockBullet
		}
		blocks = append(blocks, Block{Kind: kind, Text: line})
	}
	return Rendered{Blocks: blocks}
}

// Render 计算字段在预览中的内容。
// 多行字段显示占位文本时不做分行处理，与清空后的显示保持一致。
func Render(f Field, raw string) Rendered {
	value := Resolve(f, raw)
	if f.Multiline && value != f.Default {
		return FormatMultiline(value)
	}
	return Plain(value)
}
