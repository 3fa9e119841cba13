package publisher

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/kcaltrack/internal/config"
	"github.com/jgoulah/kcaltrack/internal/nutrition"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	sent []message
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic, qos, retained, payload.([]byte)})
	return newToken(c.err)
}

func TestNew_RequiresEnabledAndBroker(t *testing.T) {
	_, err := New(config.MQTTConfig{}, "kcal")
	assert.Error(t, err)

	_, err = New(config.MQTTConfig{Enabled: true}, "kcal")
	assert.Error(t, err)
}

func TestNewDayPayload(t *testing.T) {
	entries := []models.FoodEntry{
		{ID: "a", Date: "2024-01-10", Calories: 500, Carbs: 60, Protein: 20, Fat: 15},
		{ID: "b", Date: "2024-01-10", Calories: 333, Carbs: 40, Protein: 10, Fat: 5},
	}

	p := NewDayPayload("2024-01-10", entries, 1000)
	assert.Equal(t, 833.0, p.Calories)
	assert.Equal(t, 83.3, p.Progress)
	assert.Equal(t, nutrition.StatusNear, p.Status)
	assert.Equal(t, 2, p.Entries)
	assert.Equal(t, 1000, p.Goal)
}

func TestPublishDay(t *testing.T) {
	fc := &fakeClient{}
	p := &Publisher{client: fc, topicPrefix: "kcal"}

	payload := NewDayPayload("2024-01-10", nil, 2000)
	require.NoError(t, p.PublishDay(payload))
	require.NoError(t, p.PublishState(payload))

	require.Len(t, fc.sent, 2)
	assert.Equal(t, "kcal/daily/2024-01-10", fc.sent[0].topic)
	assert.True(t, fc.sent[0].retained)
	assert.Equal(t, byte(1), fc.sent[0].qos)
	assert.Equal(t, "kcal/state", fc.sent[1].topic)

	var got DayPayload
	require.NoError(t, json.Unmarshal(fc.sent[0].payload, &got))
	assert.Equal(t, payload, got)
}

func TestPublishDay_Error(t *testing.T) {
	fc := &fakeClient{err: errors.New("not connected")}
	p := &Publisher{client: fc, topicPrefix: "kcal"}

	err := p.PublishDay(NewDayPayload("2024-01-10", nil, 2000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kcal/daily/2024-01-10")
	p.Close()
}
