package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Result is the flat outcome mapping an action reports back to the host.
type Result map[string]any

// Statuses the host understands in a result mapping.
const (
	StatusSuccess        = "success"
	StatusHalted         = "halted"
	StatusRetryRequested = "retry_requested"
)

// Action is the lifecycle contract between the hosting job runner and an
// action. Invoke is the normal path. Error is called by the host after a
// failed Invoke and decides whether a retry should be requested; returning an
// error tells the host the failure is fatal. Halt is the host's graceful
// cancellation callback and must not perform I/O.
type Action interface {
	Invoke(ctx context.Context, cfg *ConfigMap) (Result, error)
	Error(ctx context.Context, cfg *ConfigMap, invokeErr error) (Result, error)
	Halt(ctx context.Context, cfg *ConfigMap, reason string) (Result, error)
}

// ParameterInfo describes a single parameter an action accepts.
type ParameterInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Mandatory   bool   `json:"mandatory"`
}

// ActionInfo is the discovery metadata the host reads for an action.
type ActionInfo struct {
	Name       string           `json:"name"`
	Version    string           `json:"version"`
	Parameters []*ParameterInfo `json:"parameters"`
}

// envelope is one lifecycle dispatch from the host.
type envelope struct {
	Phase      string            `json:"phase"`
	Parameters map[string]string `json:"parameters"`
	Reason     string            `json:"reason,omitempty"`
	Error      string            `json:"error,omitempty"`
}

const (
	phaseInvoke = "invoke"
	phaseError  = "error"
	phaseHalt   = "halt"
	phaseInfo   = "info"
)

// Serve reads a single lifecycle envelope from in, dispatches it to the
// action and writes the result mapping to out. The process environment is
// merged underneath the envelope parameters so that secrets and defaults
// (ADDRESS, credential variables) reach the action through the same bag.
// One envelope per process; the host owns re-invocation.
func Serve(ctx context.Context, action Action, info *ActionInfo, in io.Reader, out io.Writer) error {
	var env envelope
	if err := json.NewDecoder(in).Decode(&env); err != nil {
		return fmt.Errorf("could not decode run envelope: %w", err)
	}

	params := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			params[k] = v
		}
	}

	for k, v := range env.Parameters {
		params[k] = v
	}

	cfg := &ConfigMap{Parameters: params}

	var (
		result Result
		err    error
	)

	switch env.Phase {
	case phaseInvoke, "":
		result, err = action.Invoke(ctx, cfg)
	case phaseError:
		result, err = action.Error(ctx, cfg, errors.New(env.Error))
	case phaseHalt:
		result, err = action.Halt(ctx, cfg, env.Reason)
	case phaseInfo:
		return json.NewEncoder(out).Encode(info)
	default:
		return fmt.Errorf("unknown phase %q", env.Phase)
	}

	if err != nil {
		return err
	}

	return json.NewEncoder(out).Encode(result)
}
