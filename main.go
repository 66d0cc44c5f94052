package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/runwell-io/action-azuread-group-remove/azuread"
	"github.com/runwell-io/action-azuread-group-remove/runner"
)

var version = "0.0.0"

var logger hclog.Logger

func main() {
	logger = runner.Logger()

	err := runner.Serve(context.Background(), azuread.NewGroupMemberRemover(), &runner.ActionInfo{
		Name:    "azuread-group-remove",
		Version: version,
		Parameters: []*runner.ParameterInfo{
			{Name: azuread.ParamUserPrincipalName, Description: "The principal name (email-shaped) of the user to remove", Mandatory: true},
			{Name: azuread.ParamGroupID, Description: "The object id of the group to remove the user from", Mandatory: true},
			{Name: azuread.ParamAddress, Description: "Base address of the Microsoft Graph API (overrides the ADDRESS environment variable)", Mandatory: false},
		},
	}, os.Stdin, os.Stdout)

	if err != nil {
		logger.Error(fmt.Sprintf("error while running action: %s", err.Error()))
		os.Exit(1)
	}
}
