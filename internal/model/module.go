package model

import (
	"encoding/json"
	"fmt"
)

type ModuleType string

const (
	ModuleVideo   ModuleType = "video"
	ModuleReading ModuleType = "reading"
	ModuleQuiz    ModuleType = "quiz"
)

// ModuleContent is the closed set of module payloads. Only the types in this
// file implement it.
type ModuleContent interface {
	Type() ModuleType
	isModuleContent()
}

type VideoContent struct {
	URL string `json:"video_url" validate:"required"`
	// DurationSeconds 由服务端探测得到；为 0 时使用客户端上报的时长
	DurationSeconds float64 `json:"duration_seconds,omitempty" validate:"gte=0"`
}

type ReadingContent struct {
	URL  string `json:"reading_url,omitempty"`
	HTML string `json:"reading_content,omitempty"`
}

type QuizContent struct {
	PassingScore int        `json:"passing_score" validate:"gte=0,lte=100"`
	Questions    []Question `json:"questions" validate:"required,min=1,dive"`
}

type Question struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
	Explanation   string   `json:"explanation,omitempty"`
}

func (VideoContent) Type() ModuleType   { return ModuleVideo }
func (ReadingContent) Type() ModuleType { return ModuleReading }
func (QuizContent) Type() ModuleType    { return ModuleQuiz }

func (VideoContent) isModuleContent()   {}
func (ReadingContent) isModuleContent() {}
func (QuizContent) isModuleContent()    {}

// Module 课程中的一个学习单元，顺序由其在 Course.Modules 中的位置决定
type Module struct {
	ID      string
	Title   string
	Content ModuleContent
}

func (m Module) Type() ModuleType {
	if m.Content == nil {
		return ""
	}
	return m.Content.Type()
}

type moduleJSON struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Type            ModuleType   `json:"type"`
	VideoURL        string       `json:"video_url,omitempty"`
	DurationSeconds float64      `json:"duration_seconds,omitempty"`
	ReadingURL      string       `json:"reading_url,omitempty"`
	ReadingContent  string       `json:"reading_content,omitempty"`
	Quiz            *QuizContent `json:"quiz,omitempty"`
}

func (m Module) MarshalJSON() ([]byte, error) {
	out := moduleJSON{ID: m.ID, Title: m.Title}
	switch c := m.Content.(type) {
	case VideoContent:
		out.Type = ModuleVideo
		out.VideoURL = c.URL
		out.DurationSeconds = c.DurationSeconds
	case ReadingContent:
		out.Type = ModuleReading
		out.ReadingURL = c.URL
		out.ReadingContent = c.HTML
	case QuizContent:
		out.Type = ModuleQuiz
		q := c
		out.Quiz = &q
	default:
		return nil, fmt.Errorf("module %q has no content", m.ID)
	}
	return json.Marshal(out)
}

func (m *Module) UnmarshalJSON(data []byte) error {
	var in moduleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.ID = in.ID
	m.Title = in.Title
	switch in.Type {
	case ModuleVideo:
		m.Content = VideoContent{URL: in.VideoURL, DurationSeconds: in.DurationSeconds}
	case ModuleReading:
		m.Content = ReadingContent{URL: in.ReadingURL, HTML: in.ReadingContent}
	case ModuleQuiz:
		if in.Quiz == nil {
			m.Content = QuizContent{}
		} else {
			m.Content = *in.Quiz
		}
	default:
		return fmt.Errorf("unknown module type %q", in.Type)
	}
	return nil
}
