package azuread

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runwell-io/action-azuread-group-remove/runner"
)

// RateLimitBackoff is the delay applied before a retry is requested after an
// upstream 429.
const RateLimitBackoff = 5 * time.Second

// GroupMemberRemover removes a user from an Azure AD group. It resolves the
// user's directory object id from the principal name, then deletes the
// membership reference. Each invocation is stateless; the credential is
// computed once per invocation and never stored.
type GroupMemberRemover struct {
	// Backoff is the delay applied before a retry is requested on rate
	// limiting.
	Backoff time.Duration
}

func NewGroupMemberRemover() *GroupMemberRemover {
	return &GroupMemberRemover{Backoff: RateLimitBackoff}
}

func (a *GroupMemberRemover) Invoke(ctx context.Context, cfg *runner.ConfigMap) (runner.Result, error) {
	userPrincipalName := cfg.GetString(ParamUserPrincipalName)
	if userPrincipalName == "" {
		return nil, fmt.Errorf("missing required parameter %s", ParamUserPrincipalName)
	}

	groupID := cfg.GetString(ParamGroupID)
	if groupID == "" {
		return nil, fmt.Errorf("missing required parameter %s", ParamGroupID)
	}

	address := cfg.GetStringWithDefault(ParamAddress, cfg.GetString(EnvAddress))
	if address == "" {
		return nil, fmt.Errorf("no directory address configured: set the %s parameter or the %s environment variable", ParamAddress, EnvAddress)
	}

	strategy, err := ResolveCredential(cfg)
	if err != nil {
		return nil, err
	}

	authorization, err := strategy.AuthorizationHeader(ctx)
	if err != nil {
		return nil, err
	}

	client := NewGraphClient(address, authorization)

	logger.Debug(fmt.Sprintf("Resolving object id for user %s", userPrincipalName))

	userID, err := client.GetUserID(ctx, userPrincipalName)
	if err != nil {
		return nil, err
	}

	removed, err := client.RemoveGroupMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	if removed {
		logger.Info(fmt.Sprintf("Removed user %s from group %s", userPrincipalName, groupID))
	} else {
		logger.Info(fmt.Sprintf("User %s was not a member of group %s", userPrincipalName, groupID))
	}

	return runner.Result{
		"status":               runner.StatusSuccess,
		ParamUserPrincipalName: userPrincipalName,
		ParamGroupID:           groupID,
		"userId":               userID,
		"removed":              removed,
	}, nil
}

// Error classifies a failed invocation and advises the host whether to retry.
// Auth and permission failures are fatal; rate limiting backs off before the
// retry request; anything unrecognized is assumed transient and retried.
func (a *GroupMemberRemover) Error(ctx context.Context, cfg *runner.ConfigMap, invokeErr error) (runner.Result, error) {
	msg := invokeErr.Error()

	switch {
	case strings.Contains(msg, "429"):
		logger.Warn(fmt.Sprintf("Rate limited, backing off %s before requesting a retry", a.Backoff))
		time.Sleep(a.Backoff)

		return runner.Result{"status": runner.StatusRetryRequested}, nil
	case strings.Contains(msg, "502"), strings.Contains(msg, "503"), strings.Contains(msg, "504"):
		return runner.Result{"status": runner.StatusRetryRequested}, nil
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"):
		return nil, invokeErr
	default:
		return runner.Result{"status": runner.StatusRetryRequested}, nil
	}
}

// Halt is the host's graceful cancellation callback. It performs no I/O and
// only echoes the identifying parameters back.
func (a *GroupMemberRemover) Halt(ctx context.Context, cfg *runner.ConfigMap, reason string) (runner.Result, error) {
	return runner.Result{
		"status":               runner.StatusHalted,
		ParamUserPrincipalName: cfg.GetStringWithDefault(ParamUserPrincipalName, "unknown"),
		ParamGroupID:           cfg.GetStringWithDefault(ParamGroupID, "unknown"),
		"reason":               reason,
		"halted_at":            time.Now().UTC().Format(time.RFC3339),
	}, nil
}
