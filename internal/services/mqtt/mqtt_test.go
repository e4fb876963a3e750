package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicByKind(t *testing.T) {
	assert.Equal(t, "inspection/scans", Topic("inspection", "scan"))
	assert.Equal(t, "inspection/events", Topic("inspection", "event"))
	assert.Equal(t, "plant/line1/events", Topic("plant/line1", "anything"))
}
