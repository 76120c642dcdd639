// Command mealportal runs the cafeteria portal gateway and its admin helpers.
//
// @title                       Meal Portal API
// @version                     1.0
// @description                 Role-aware gateway in front of the cafeteria user, order and admin services.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "mealportal",
		Short:         "Cafeteria portal gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newRolesCmd(), newReportCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
