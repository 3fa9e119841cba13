package publisher

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/kcaltrack/internal/config"
	"github.com/jgoulah/kcaltrack/internal/nutrition"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

// publishTimeout bounds how long a single publish waits for the broker
const publishTimeout = 10 * time.Second

// client is the part of mqtt.Client the publisher uses
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher sends daily nutrition summaries to an MQTT broker
type Publisher struct {
	client      client
	topicPrefix string
	disconnect  func()
}

// New connects to the broker described by cfg
func New(cfg config.MQTTConfig, topicPrefix string) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("kcaltrack-" + uuid.NewString()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	// Create and connect client
	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      c,
		topicPrefix: topicPrefix,
		disconnect: func() {
			if c.IsConnected() {
				c.Disconnect(250)
			}
		},
	}, nil
}

// DayPayload is the retained message published for each day
type DayPayload struct {
	Date     string           `json:"date"`
	Calories float64          `json:"calories"`
	Carbs    float64          `json:"carbs"`
	Protein  float64          `json:"protein"`
	Fat      float64          `json:"fat"`
	Goal     int              `json:"goal"`
	Progress float64          `json:"progress"` // percent, one decimal
	Status   nutrition.Status `json:"status"`
	Entries  int              `json:"entries"`
}

// NewDayPayload summarizes one day's entries against target
func NewDayPayload(day string, entries []models.FoodEntry, targetCalories int) DayPayload {
	s := nutrition.Summarize(entries, targetCalories)
	return DayPayload{
		Date:     day,
		Calories: s.TotalCalories,
		Carbs:    s.TotalCarbs,
		Protein:  s.TotalProtein,
		Fat:      s.TotalFat,
		Goal:     targetCalories,
		Progress: math.Round(s.GoalProgress*10) / 10,
		Status:   nutrition.GoalStatus(s.GoalProgress),
		Entries:  len(entries),
	}
}

// DayTopic returns the topic a day's summary is published on
func (p *Publisher) DayTopic(day string) string {
	return fmt.Sprintf("%s/daily/%s", p.topicPrefix, day)
}

// StateTopic returns the topic holding the most recent day's summary
func (p *Publisher) StateTopic() string {
	return p.topicPrefix + "/state"
}

// PublishDay publishes a retained summary for one day
func (p *Publisher) PublishDay(payload DayPayload) error {
	return p.publish(p.DayTopic(payload.Date), payload)
}

// PublishState publishes the current day's summary to the state topic
func (p *Publisher) PublishState(payload DayPayload) error {
	return p.publish(p.StateTopic(), payload)
}

func (p *Publisher) publish(topic string, payload DayPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(topic, 1, true, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.disconnect != nil {
		p.disconnect()
	}
}
