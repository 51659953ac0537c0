package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows_FirstPage(t *testing.T) {
	rt, buf := setupRuntime(t)
	cmd := &RowsCommand{
		SelectionFlags: SelectionFlags{City: "chicago", Month: "all", Day: "all"},
		Pages:          1,
		PageSize:       2,
		globals:        &GlobalFlags{},
	}

	require.NoError(t, cmd.executeWithRuntime(context.Background(), rt))
	out := buf.String()

	assert.Contains(t, out, "page 1 (rows 1-2)")
	assert.Contains(t, out, "2017-01-01 09:07:57")
	assert.Contains(t, out, "2017-01-02 09:10:00")
	assert.NotContains(t, out, "2017-03-06")
	assert.Contains(t, out, "3 more rows.")
}

func TestRows_RunsOutOfData(t *testing.T) {
	rt, buf := setupRuntime(t)
	cmd := &RowsCommand{
		SelectionFlags: SelectionFlags{City: "chicago", Month: "march"},
		Pages:          3,
		globals:        &GlobalFlags{},
	}

	require.NoError(t, cmd.executeWithRuntime(context.Background(), rt))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "Raw data, page"))
	assert.Contains(t, out, noMoreData)
}

func TestRows_JSON(t *testing.T) {
	rt, buf := setupRuntime(t)
	cmd := &RowsCommand{
		SelectionFlags: SelectionFlags{City: "washington"},
		Pages:          5,
		PageSize:       2,
		globals:        &GlobalFlags{JSON: true},
	}

	require.NoError(t, cmd.executeWithRuntime(context.Background(), rt))

	var got rowsJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Pages, 2)
	assert.Equal(t, 2, got.Pages[1].Number)
	assert.Equal(t, 2, got.Pages[1].Offset)
	assert.Len(t, got.Pages[1].Rows, 1)
	assert.True(t, got.Exhausted)
	assert.Equal(t, "Start Time", got.Columns[1])
}

func TestRows_RejectsZeroPages(t *testing.T) {
	rt, _ := setupRuntime(t)
	cmd := &RowsCommand{
		SelectionFlags: SelectionFlags{City: "chicago"},
		globals:        &GlobalFlags{},
	}

	err := cmd.executeWithRuntime(context.Background(), rt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--pages")
}
