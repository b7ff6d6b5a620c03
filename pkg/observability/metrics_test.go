package observability

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveMutation("node_added")
	m.ObserveMutation("node_added")
	m.ObserveMutation("edge_added")
	m.ObserveImport(nil)
	m.ObserveImport(errors.New("bad"))
	m.SetGraph(3, 2, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("node_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("edge_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues(ImportOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues(ImportFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.nodes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.edges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationErrors))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.SetGraph(1, 0, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "flowcraft_nodes 1")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	obs := AuditLogger(logger)

	obs(domain.ChangeEvent{Type: domain.EventNodeAdded, NodeID: "n1", Structural: true})
	obs(domain.ChangeEvent{Type: domain.EventSelectionChanged, NodeID: "n1"})

	out := buf.String()
	assert.Contains(t, out, "event=node_added")
	assert.Contains(t, out, "node_id=n1")
	assert.NotContains(t, out, "selection_changed")
}
