package businessflow

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/amirphl/mushola/app/dto"
	"github.com/amirphl/mushola/config"
	"github.com/amirphl/mushola/utils"
)

// ContentFlow serves the fixed devotional documents
type ContentFlow interface {
	GetContent(ctx context.Context, topic, requestBaseURL string) (*dto.ContentResponse, error)
	Topics() []string
}

// ContentFlowImpl implements ContentFlow
type ContentFlowImpl struct {
	publicBaseURL string
	audioPath     string
}

// NewContentFlow creates a new content flow
func NewContentFlow(cfg config.ContentConfig) ContentFlow {
	audioPath := "/" + strings.Trim(cfg.AudioPath, "/")
	if audioPath == "/" {
		audioPath = "/audio"
	}
	return &ContentFlowImpl{
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		audioPath:     audioPath,
	}
}

// GetContent builds the document of topic. Audio links are rooted at the configured public
// base URL, or at requestBaseURL when none is configured.
func (f *ContentFlowImpl) GetContent(ctx context.Context, topic, requestBaseURL string) (*dto.ContentResponse, error) {
	t, ok := contentTopics[topic]
	if !ok {
		return nil, NewBusinessError(CodeContentNotFound, "Content not found", fmt.Errorf("%w: %q", ErrUnknownTopic, topic))
	}

	audioURL := f.baseURL(requestBaseURL) + f.audioPath + "/" + topic + ".mp3"

	items := make([]dto.ContentItem, 0, len(t.lines))
	for i, line := range t.lines {
		items = append(items, dto.ContentItem{
			ID:          i + 1,
			Arabic:      line.arabic,
			Latin:       line.latin,
			Translation: line.translation,
			Repeat:      line.repeat,
			Audio: dto.AudioClip{
				URL:   AudioFragmentURL(audioURL, line.start, line.end),
				Start: line.start,
				End:   line.end,
			},
		})
	}

	var notes []string
	if len(t.notes) > 0 {
		notes = append(notes, t.notes...)
	}

	return &dto.ContentResponse{
		Success: true,
		Data: &dto.ContentDocument{
			Topic:       topic,
			Title:       t.title,
			Description: t.description,
			AudioURL:    audioURL,
			Items:       items,
			Notes:       notes,
			CreatedAt:   utils.UTCNowRFC3339(),
		},
	}, nil
}

// Topics lists the served topics in alphabetical order
func (f *ContentFlowImpl) Topics() []string {
	topics := make([]string, 0, len(contentTopics))
	for topic := range contentTopics {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func (f *ContentFlowImpl) baseURL(requestBaseURL string) string {
	if f.publicBaseURL != "" {
		return f.publicBaseURL
	}
	return strings.TrimRight(requestBaseURL, "/")
}

// AudioFragmentURL appends a media fragment selecting [start, end] seconds
func AudioFragmentURL(audioURL string, start, end float64) string {
	return audioURL + "#t=" + formatSeconds(start) + "," + formatSeconds(end)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
