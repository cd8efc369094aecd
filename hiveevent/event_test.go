package hiveevent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemap/hivemap-go/hiveevent"
)

func TestNewAllocatesEveryFieldGroup(t *testing.T) {
	e := hiveevent.New()
	assert.NotNil(t, e.Config)
	assert.NotNil(t, e.Inputs)
	assert.NotNil(t, e.Outputs)
	assert.NotNil(t, e.Metadata)
	assert.NotNil(t, e.Metrics)
	assert.NotNil(t, e.Feedback)
	assert.Equal(t, hiveevent.TypeGeneric, e.EventType)
	assert.Empty(t, e.IDs.EventID, "id assignment is the mapper's job")
}

func TestFillNeverOverwrites(t *testing.T) {
	dst := map[string]interface{}{"model": "gpt-4"}
	hiveevent.Fill(dst, map[string]interface{}{
		"model":    "gpt-3.5",
		"provider": "openai",
	})
	assert.Equal(t, "gpt-4", dst["model"])
	assert.Equal(t, "openai", dst["provider"])
}

func TestFillTolerantOfNilSource(t *testing.T) {
	dst := map[string]interface{}{}
	hiveevent.Fill(dst, nil)
	assert.Empty(t, dst)
}

func TestSetChildrenCopies(t *testing.T) {
	e := hiveevent.New()
	ids := []string{"a", "b"}
	e.SetChildren(ids)
	ids[0] = "mutated"
	require.Len(t, e.IDs.ChildrenIDs, 2)
	assert.Equal(t, "a", e.IDs.ChildrenIDs[0])
}
