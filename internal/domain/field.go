package domain

import (
	"fmt"
	"strings"
)

// Field is one of the five fixed interest domains.
type Field int

const (
	FieldScience Field = iota
	FieldHumanities
	FieldArts
	FieldBusiness
	FieldService
)

// FieldCount is the number of interest domains.
const FieldCount = 5

// AllFields lists the domains in report order.
var AllFields = [FieldCount]Field{FieldScience, FieldHumanities, FieldArts, FieldBusiness, FieldService}

var fieldTags = [FieldCount]string{"science", "humanities", "arts", "business", "service"}

// Labels used by the reference question bank and the result export.
var fieldLabels = [FieldCount]string{"科学", "人文", "艺术", "商业", "服务"}

var fieldSuggestions = [FieldCount]string{
	"🔬 适合专业：计算机、物理、化学、生物、工程、数学、人工智能",
	"📚 适合专业：文学、历史、哲学、社会学、语言学、人类学、考古学",
	"🎨 适合专业：美术、音乐、设计、戏剧、影视、艺术史、数字媒体",
	"💼 适合专业：经济学、金融学、管理学、市场营销、国际贸易、会计",
	"❤️ 适合专业：医学、护理、教育、心理学、社会工作、体育、公共卫生",
}

// BlendedSuggestions is shown when several domains share the top percentage.
var BlendedSuggestions = []string{
	"你的兴趣比较广泛，可以考虑交叉学科专业，如：",
	"- 科学+艺术：数字媒体、建筑学、工业设计",
	"- 人文+商业：文化产业管理、市场营销",
	"- 科学+服务：医学、生物工程",
}

// Valid reports whether f is one of the five domains.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < FieldCount
}

// String returns the English tag (science, humanities, ...).
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTags[f]
}

// Label returns the display name used in exports.
func (f Field) Label() string {
	if !f.Valid() {
		return f.String()
	}
	return fieldLabels[f]
}

// Suggestion returns the recommended majors for a single strongest domain.
func (f Field) Suggestion() string {
	if !f.Valid() {
		return ""
	}
	return fieldSuggestions[f]
}

// ParseField accepts either the English tag or the label.
func ParseField(raw string) (Field, error) {
	s := strings.TrimSpace(raw)
	for i := 0; i < FieldCount; i++ {
		if strings.EqualFold(s, fieldTags[i]) || s == fieldLabels[i] {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, raw)
}

func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return []byte(fieldTags[f]), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
