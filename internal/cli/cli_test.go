package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"production/internal/app"
	"production/internal/cache"
	"production/internal/model"
)

// harness runs prodctl invocations against one shared in-memory App.
type harness struct {
	app    *app.App
	closed int
}

func newHarness() *harness {
	return &harness{app: app.New(cache.NewMem(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(func(context.Context) (*app.App, func() error, error) {
		return h.app, func() error { h.closed++; return nil }, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTemplateShow_Text(t *testing.T) {
	h := newHarness()
	out, err := h.run(t, "", "template", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "template default (Standard production), 23 days")
	assert.Contains(t, out, "1. Design approval")
	assert.Equal(t, 1, h.closed)
}

func TestTemplateShow_JSON(t *testing.T) {
	out, err := newHarness().run(t, "", "--format", "json", "template", "show")
	require.NoError(t, err)

	var got model.TemplateRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, model.DefaultTemplateID, got.ID)
	assert.Len(t, got.Stages, 7)
}

func TestTemplateSave_StdinThenReset(t *testing.T) {
	h := newHarness()
	_, err := h.run(t, `{"id":"rush","name":"Rush","stages":[{"id":"sewing","name":"Sewing","days":2}]}`, "template", "save")
	require.NoError(t, err)
	assert.Equal(t, "rush", h.app.Template(context.Background()).ID)

	_, err = h.run(t, "", "template", "reset")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTemplateID, h.app.Template(context.Background()).ID)
}

func TestOrdersSet_YAMLFile(t *testing.T) {
	h := newHarness()
	path := filepath.Join(t.TempDir(), "ord.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stages:
  - stageId: cutting
    name: Cutting
    days: 2
    status: done
selectedSupplierIds: [SUP-9]
`), 0o600))

	out, err := h.run(t, "", "orders", "set", "ORD-1", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "order ORD-1, suppliers [SUP-9]")
	assert.Contains(t, out, "done")

	rec, ok := h.app.OrderRecord(context.Background(), "ORD-1")
	require.True(t, ok)
	assert.Equal(t, []model.StageValue{{StageID: "cutting", Name: "Cutting", Days: 2, Status: "done"}}, rec.Stages)
}

func TestOrdersListGetRemove(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	out, err := h.run(t, "", "orders", "list")
	require.NoError(t, err)
	assert.Equal(t, "no order data\n", out)

	_, err = h.app.SaveOrderData(ctx, "ORD-2", nil, []string{"SUP-1", "SUP-2"})
	require.NoError(t, err)
	_, err = h.app.SaveOrderData(ctx, "ORD-1", nil, nil)
	require.NoError(t, err)

	out, err = h.run(t, "", "orders", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ORD-1\t"))
	assert.Contains(t, lines[1], "suppliers=SUP-1,SUP-2")

	out, err = h.run(t, "", "--format", "yaml", "orders", "get", "ORD-2")
	require.NoError(t, err)
	var rec model.OrderRecord
	require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "ORD-2", rec.OrderID)
	assert.Equal(t, []string{"SUP-1", "SUP-2"}, rec.SelectedSupplierIDs)

	out, err = h.run(t, "", "orders", "rm", "ORD-2")
	require.NoError(t, err)
	assert.Equal(t, "removed ORD-2\n", out)
	_, err = h.run(t, "", "orders", "get", "ORD-2")
	assert.ErrorContains(t, err, `no order data for "ORD-2"`)

	out, err = h.run(t, "", "orders", "rm", "ORD-2")
	require.NoError(t, err)
	assert.Equal(t, "no order data for ORD-2\n", out)
}

func TestOrdersStages(t *testing.T) {
	h := newHarness()
	out, err := h.run(t, "", "orders", "stages", "ORD-9")
	require.NoError(t, err)
	assert.Contains(t, out, "stages from template")

	_, err = h.run(t, `{"stages":[{"stageId":"packing","name":"Packing","days":1}]}`, "orders", "set", "ORD-9")
	require.NoError(t, err)
	out, err = h.run(t, "", "orders", "stages", "ORD-9")
	require.NoError(t, err)
	assert.Contains(t, out, "stages from order")
	assert.Contains(t, out, "Packing")
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness()
	_, err := h.run(t, "", "--format", "xml", "template", "show")
	assert.ErrorContains(t, err, "invalid format")
	assert.Zero(t, h.closed)
}

func TestOrdersSet_EmptyIDRejected(t *testing.T) {
	_, err := newHarness().run(t, `{}`, "orders", "set", "")
	assert.Error(t, err)
}
