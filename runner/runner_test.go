package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAction struct {
	lastPhase  string
	lastCfg    *ConfigMap
	lastReason string
	lastErr    error
	result     Result
	err        error
}

func (s *stubAction) Invoke(ctx context.Context, cfg *ConfigMap) (Result, error) {
	s.lastPhase = "invoke"
	s.lastCfg = cfg

	return s.result, s.err
}

func (s *stubAction) Error(ctx context.Context, cfg *ConfigMap, invokeErr error) (Result, error) {
	s.lastPhase = "error"
	s.lastCfg = cfg
	s.lastErr = invokeErr

	return s.result, s.err
}

func (s *stubAction) Halt(ctx context.Context, cfg *ConfigMap, reason string) (Result, error) {
	s.lastPhase = "halt"
	s.lastCfg = cfg
	s.lastReason = reason

	return s.result, s.err
}

func TestServe_Invoke(t *testing.T) {
	action := &stubAction{result: Result{"status": StatusSuccess}}
	out := &bytes.Buffer{}

	err := Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{"phase":"invoke","parameters":{"userPrincipalName":"jane@example.com"}}`), out)

	require.NoError(t, err)
	assert.Equal(t, "invoke", action.lastPhase)
	assert.Equal(t, "jane@example.com", action.lastCfg.GetString("userPrincipalName"))

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, StatusSuccess, result["status"])
}

func TestServe_EmptyPhaseDefaultsToInvoke(t *testing.T) {
	action := &stubAction{result: Result{"status": StatusSuccess}}

	err := Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{"parameters":{}}`), &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "invoke", action.lastPhase)
}

func TestServe_MergesEnvironmentUnderParameters(t *testing.T) {
	t.Setenv("ADDRESS", "https://graph.microsoft.com")
	t.Setenv("BEARER_TOKEN", "from-env")

	action := &stubAction{result: Result{}}

	err := Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{"phase":"invoke","parameters":{"BEARER_TOKEN":"from-params"}}`), &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "https://graph.microsoft.com", action.lastCfg.GetString("ADDRESS"))
	assert.Equal(t, "from-params", action.lastCfg.GetString("BEARER_TOKEN"), "envelope parameters win over the environment")
}

func TestServe_ErrorPhase(t *testing.T) {
	action := &stubAction{result: Result{"status": StatusRetryRequested}}
	out := &bytes.Buffer{}

	err := Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{"phase":"error","error":"could not resolve user: 429 Too Many Requests"}`), out)

	require.NoError(t, err)
	assert.Equal(t, "error", action.lastPhase)
	require.NotNil(t, action.lastErr)
	assert.Contains(t, action.lastErr.Error(), "429")
}

func TestServe_ErrorPhaseReRaises(t *testing.T) {
	fatal := errors.New("could not resolve user: 403 Forbidden")
	action := &stubAction{err: fatal}

	err := Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{"phase":"error","error":"could not resolve user: 403 Forbidden"}`), &bytes.Buffer{})

	require.Error(t, err)
	assert.Equal(t, fatal, err)
}

func TestServe_HaltPhase(t *testing.T) {
	action := &stubAction{result: Result{"status": StatusHalted}}

	err := Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{"phase":"halt","reason":"host shutdown"}`), &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "halt", action.lastPhase)
	assert.Equal(t, "host shutdown", action.lastReason)
}

func TestServe_InfoPhase(t *testing.T) {
	action := &stubAction{}
	out := &bytes.Buffer{}

	err := Serve(context.Background(), action, &ActionInfo{
		Name:    "azuread-group-remove",
		Version: "1.2.3",
		Parameters: []*ParameterInfo{
			{Name: "userPrincipalName", Mandatory: true},
		},
	}, strings.NewReader(`{"phase":"info"}`), out)

	require.NoError(t, err)
	assert.Empty(t, action.lastPhase, "info must not dispatch to the action")

	var info ActionInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "azuread-group-remove", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
}

func TestServe_BadInput(t *testing.T) {
	action := &stubAction{}

	err := Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{not json`), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run envelope")

	err = Serve(context.Background(), action, &ActionInfo{Name: "stub"},
		strings.NewReader(`{"phase":"reap"}`), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown phase")
}
