package wechat

import (
	"sort"
	"strings"
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// ToXML 序列化为 <xml><k>v</k>...</xml>，不做转义，键按字节序输出
func ToXML(params Params) string {
	return encode(params, false)
}

// ToXMLCDATA 同 ToXML，但值用 CDATA 包裹
func ToXMLCDATA(params Params) string {
	return encode(params, true)
}

func encode(params Params, cdata bool) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("<xml>")
	for _, k := range keys {
		sb.WriteString("<" + k + ">")
		if cdata {
			sb.WriteString(cdataOpen + params[k] + cdataClose)
		} else {
			sb.WriteString(params[k])
		}
		sb.WriteString("</" + k + ">")
	}
	sb.WriteString("</xml>")
	return sb.String()
}

// FromXML 解析扁平的 <xml> 报文，兼容普通文本与 CDATA。
// 同名标签以文档中第一次出现的为准；含子标签的元素（如根节点 xml）只展开不取值。
// 只向前扫描一遍，未闭合的标签留在栈上，不会回头重新查找。
func FromXML(data string) Params {
	out := Params{}
	var stack []openElement
	open := map[string]int{}

	// 当前元素出现了子标签
	markParent := func() {
		if n := len(stack); n > 0 {
			stack[n-1].hasChild = true
		}
	}

	i := 0
	for i < len(data) {
		lt := strings.IndexByte(data[i:], '<')
		if lt < 0 {
			break
		}
		start := i + lt
		rest := data[start:]

		switch {
		case strings.HasPrefix(rest, cdataOpen):
			// CDATA 内可能出现 < 和 >，整体跳过，取值时再剥离
			end := strings.Index(rest[len(cdataOpen):], cdataClose)
			if end < 0 {
				return out
			}
			i = start + len(cdataOpen) + end + len(cdataClose)
			continue
		case strings.HasPrefix(rest, "<!--"):
			markParent()
			end := strings.Index(rest[4:], "-->")
			if end < 0 {
				return out
			}
			i = start + 4 + end + 3
			continue
		}

		gt := strings.IndexByte(rest, '>')
		if gt < 0 {
			break
		}
		tag := rest[1:gt]
		i = start + gt + 1

		if strings.HasPrefix(tag, "/") {
			name := tag[1:]
			if open[name] == 0 {
				markParent()
				continue
			}
			// 弹出到同名元素为止，中间未闭合的元素一并丢弃
			for {
				el := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				open[el.name]--
				if el.name != name {
					continue
				}
				if !el.hasChild {
					if value, leaf := textValue(data[el.contentStart:start]); leaf {
						if _, exists := out[name]; !exists {
							out[name] = value
						}
					}
				}
				break
			}
			continue
		}

		markParent()
		if !isPlainTag(tag) {
			continue
		}
		stack = append(stack, openElement{name: tag, contentStart: i})
		open[tag]++
	}
	return out
}

type openElement struct {
	name         string
	contentStart int
	hasChild     bool
}

// isPlainTag 排除结束标签、声明、注释与带属性的标签
func isPlainTag(tag string) bool {
	if tag == "" {
		return false
	}
	switch tag[0] {
	case '/', '!', '?':
		return false
	}
	return !strings.ContainsAny(tag, " \t\r\n/=\"'")
}

// textValue 返回标签内文本；含子标签时 leaf 为 false
func textValue(raw string) (value string, leaf bool) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, cdataOpen) && strings.HasSuffix(trimmed, cdataClose) {
		return trimmed[len(cdataOpen) : len(trimmed)-len(cdataClose)], true
	}
	if strings.Contains(raw, "<") {
		return "", false
	}
	return raw, true
}
