package businessflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/mushola/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentFlowBuildsAudioLinksFromRequest(t *testing.T) {
	flow := NewContentFlow(config.ContentConfig{AudioPath: "/audio"})

	for _, topic := range []string{TopicAdzan, TopicDoa} {
		t.Run(topic, func(t *testing.T) {
			resp, err := flow.GetContent(context.Background(), topic, "https://mushola.example/")
			require.NoError(t, err)
			require.True(t, resp.Success)

			doc := resp.Data
			assert.Equal(t, topic, doc.Topic)
			assert.NotEmpty(t, doc.Title)
			assert.Equal(t, "https://mushola.example/audio/"+topic+".mp3", doc.AudioURL)
			require.NotEmpty(t, doc.Items)

			for i, item := range doc.Items {
				assert.Equal(t, i+1, item.ID)
				assert.NotEmpty(t, item.Arabic)
				assert.NotEmpty(t, item.Latin)
				assert.NotEmpty(t, item.Translation)
				assert.Less(t, item.Audio.Start, item.Audio.End)
				assert.Equal(t, AudioFragmentURL(doc.AudioURL, item.Audio.Start, item.Audio.End), item.Audio.URL)
				assert.True(t, strings.HasPrefix(item.Audio.URL, doc.AudioURL+"#t="))
			}

			_, err = time.Parse(time.RFC3339, doc.CreatedAt)
			assert.NoError(t, err)
		})
	}
}

func TestContentFlowPublicBaseURLOverridesRequest(t *testing.T) {
	flow := NewContentFlow(config.ContentConfig{PublicBaseURL: "https://cdn.mushola.example/", AudioPath: "media/"})

	resp, err := flow.GetContent(context.Background(), TopicDoa, "http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.mushola.example/media/doa.mp3", resp.Data.AudioURL)
	assert.Equal(t, "https://cdn.mushola.example/media/doa.mp3#t=0,4.2", resp.Data.Items[0].Audio.URL)
}

func TestContentFlowStableShape(t *testing.T) {
	flow := NewContentFlow(config.ContentConfig{})

	a, err := flow.GetContent(context.Background(), TopicAdzan, "http://a.example")
	require.NoError(t, err)
	b, err := flow.GetContent(context.Background(), TopicAdzan, "http://a.example")
	require.NoError(t, err)

	b.Data.CreatedAt = a.Data.CreatedAt
	assert.Equal(t, a, b)

	// responses do not share item slices
	a.Data.Items[0].Latin = "changed"
	assert.NotEqual(t, a.Data.Items[0].Latin, b.Data.Items[0].Latin)
}

func TestContentFlowUnknownTopic(t *testing.T) {
	flow := NewContentFlow(config.ContentConfig{})

	resp, err := flow.GetContent(context.Background(), "khutbah", "http://a.example")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsUnknownTopic(err))
	assert.Equal(t, []string{TopicAdzan, TopicDoa}, flow.Topics())
}

func TestAudioFragmentURL(t *testing.T) {
	assert.Equal(t, "http://x/audio/adzan.mp3#t=0,18.5", AudioFragmentURL("http://x/audio/adzan.mp3", 0, 18.5))
	assert.Equal(t, "http://x/a.mp3#t=99.5,106", AudioFragmentURL("http://x/a.mp3", 99.5, 106))
}
