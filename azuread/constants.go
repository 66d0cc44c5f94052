package azuread

// Parameters supplied by the host runner per invocation.
const (
	ParamUserPrincipalName = "userPrincipalName"
	ParamGroupID           = "groupId"
	ParamAddress           = "address"
)

// Environment variables. ADDRESS is the default base address; exactly one
// complete set of credential variables has to be present.
const (
	EnvAddress = "ADDRESS"

	EnvBearerToken = "BEARER_TOKEN"

	EnvBasicUsername = "BASIC_USERNAME"
	EnvBasicPassword = "BASIC_PASSWORD"

	EnvOAuthAccessToken = "OAUTH_ACCESS_TOKEN"

	EnvOAuthTokenURL        = "OAUTH_TOKEN_URL"
	EnvOAuthClientID        = "OAUTH_CLIENT_ID"
	EnvOAuthClientSecret    = "OAUTH_CLIENT_SECRET"
	EnvOAuthScope           = "OAUTH_SCOPE"
	EnvOAuthAudience        = "OAUTH_AUDIENCE"
	EnvOAuthClientAuthStyle = "OAUTH_CLIENT_AUTH_METHOD"
)

// AuthMethodInParams makes the client-credentials exchange send the client
// identity as form parameters instead of an HTTP Basic header.
const AuthMethodInParams = "in_params"
