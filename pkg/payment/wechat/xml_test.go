package wechat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToXML(t *testing.T) {
	p := Params{"b": "2", "a": "1"}
	assert.Equal(t, "<xml><a>1</a><b>2</b></xml>", ToXML(p))
	assert.Equal(t, "<xml><a><![CDATA[1]]></a><b><![CDATA[2]]></b></xml>", ToXMLCDATA(p))
	assert.Equal(t, "<xml></xml>", ToXML(Params{}))
}

func TestXMLRoundTrip(t *testing.T) {
	p := scenarioParams()
	p[FieldSign] = Sign(p, "key1")

	assert.Equal(t, p, FromXML(ToXML(p)))
	assert.Equal(t, p, FromXML(ToXMLCDATA(p)))
}

func TestFromXML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Params
	}{
		{
			name: "cdata",
			in:   "<xml><return_code><![CDATA[SUCCESS]]></return_code><return_msg><![CDATA[OK]]></return_msg></xml>",
			want: Params{"return_code": "SUCCESS", "return_msg": "OK"},
		},
		{
			name: "literal with whitespace between tags",
			in:   "<xml>\n  <appid>wx1</appid>\n  <total_fee>10</total_fee>\n</xml>",
			want: Params{"appid": "wx1", "total_fee": "10"},
		},
		{
			name: "first occurrence wins",
			in:   "<xml><a>1</a><a>2</a></xml>",
			want: Params{"a": "1"},
		},
		{
			name: "declaration and empty value",
			in:   `<?xml version="1.0"?><xml><a></a><b>x</b></xml>`,
			want: Params{"a": "", "b": "x"},
		},
		{
			name: "nested element is expanded",
			in:   "<xml><outer><a>1</a></outer><b>2</b></xml>",
			want: Params{"a": "1", "b": "2"},
		},
		{
			name: "cdata with markup characters",
			in:   "<xml><a><![CDATA[x<y>z</a>]]></a></xml>",
			want: Params{"a": "x<y>z</a>"},
		},
		{
			name: "unclosed tag is skipped",
			in:   "<xml><a>1</a><b><c>3</c></xml>",
			want: Params{"a": "1", "c": "3"},
		},
		{
			name: "attributes and comments are ignored",
			in:   `<xml><!-- note --><a x="1">v</a><b>2</b></xml>`,
			want: Params{"b": "2"},
		},
		{
			name: "not xml",
			in:   "hello",
			want: Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromXML(tt.in))
		})
	}
}

func TestFromXMLLargeHostileInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Params
	}{
		{
			name: "unclosed tags",
			in:   strings.Repeat("<a>", 200000),
			want: Params{},
		},
		{
			name: "unmatched end tags",
			in:   strings.Repeat("<a>", 50000) + strings.Repeat("</b>", 150000),
			want: Params{},
		},
		{
			name: "deeply nested pairs",
			in:   strings.Repeat("<a>", 100000) + strings.Repeat("</a>", 100000),
			want: Params{"a": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			got := FromXML(tt.in)
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.Equal(t, tt.want, got)
		})
	}
}
