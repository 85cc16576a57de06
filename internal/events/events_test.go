package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khrees2412/mockprep/pkg/models"
)

func TestRoutingKey(t *testing.T) {
	for _, activityType := range models.ActivityTypes {
		assert.Equal(t, "activity."+activityType, RoutingKey(activityType))
	}
}

func TestDialInvalidURL(t *testing.T) {
	_, err := Dial("not-a-url")
	assert.Error(t, err)
}
