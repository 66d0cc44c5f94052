package azuread

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const graphTimeout = 30 * time.Second

// GraphClient performs the two Microsoft Graph calls the action needs:
// resolving a user principal name to an object id and deleting a group
// membership reference.
type GraphClient struct {
	HTTPClient    *http.Client
	BaseURL       string
	Authorization string
}

func NewGraphClient(baseURL string, authorization string) *GraphClient {
	return &GraphClient{
		HTTPClient:    &http.Client{Timeout: graphTimeout},
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		Authorization: authorization,
	}
}

func (c *GraphClient) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", c.Authorization)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.New().String())

	return req, nil
}

// GetUserID resolves a user principal name to the directory object id.
func (c *GraphClient) GetUserID(ctx context.Context, userPrincipalName string) (string, error) {
	url := fmt.Sprintf("%s/v1.0/users/%s", c.BaseURL, escapeSegment(userPrincipalName))

	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("could not resolve user %s: %d %s", userPrincipalName, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var user userResource

	if err := json.Unmarshal(body, &user); err != nil {
		return "", err
	}

	if user.ID == "" {
		return "", fmt.Errorf("no object id found for user %s", userPrincipalName)
	}

	return user.ID, nil
}

// RemoveGroupMember deletes the membership reference of objectID in groupID.
// It reports false without an error when the membership did not exist.
func (c *GraphClient) RemoveGroupMember(ctx context.Context, groupID string, objectID string) (bool, error) {
	url := fmt.Sprintf("%s/v1.0/groups/%s/members/%s/$ref", c.BaseURL, groupID, escapeSegment(objectID))

	req, err := c.newRequest(ctx, http.MethodDelete, url)
	if err != nil {
		return false, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		// The user was not a member of the group.
		return false, nil
	default:
		return false, fmt.Errorf("could not remove user %s from group %s: %d %s", objectID, groupID, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
}
