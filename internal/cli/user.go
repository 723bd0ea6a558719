package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/pkg/validation"
)

type userCreateOptions struct {
	firstName string
	lastName  string
	email     string
	password  string
	role      string
	staff     bool
}

type accountRegistrar interface {
	Register(ctx context.Context, req models.RegisterRequest, meta models.RequestMeta) (*models.User, error)
}

// NewUserCommand creates the user command group.
func NewUserCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	opts := &userCreateOptions{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account, optionally with the staff flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := env.open()
			if err != nil {
				return err
			}
			defer db.Close()
			users := service.NewUserService(repository.NewUserRepository(db), validation.New(), nil)
			return runUserCreate(cmd, users, opts)
		},
	}
	create.Flags().StringVar(&opts.firstName, "first-name", "", "first name")
	create.Flags().StringVar(&opts.lastName, "last-name", "", "last name")
	create.Flags().StringVar(&opts.email, "email", "", "login email")
	create.Flags().StringVar(&opts.password, "password", "", "initial password (min 8 characters)")
	create.Flags().StringVar(&opts.role, "role", string(models.RoleInstructor), "INSTRUCTOR or STUDENT")
	create.Flags().BoolVar(&opts.staff, "staff", false, "mark the account as staff")
	for _, name := range []string{"first-name", "last-name", "email", "password"} {
		_ = create.MarkFlagRequired(name)
	}

	cmd.AddCommand(create)
	return cmd
}

func runUserCreate(cmd *cobra.Command, users accountRegistrar, opts *userCreateOptions) error {
	user, err := users.Register(cmd.Context(), models.RegisterRequest{
		FirstName: opts.firstName,
		LastName:  opts.lastName,
		Email:     opts.email,
		Password:  opts.password,
		Role:      models.UserRole(opts.role),
		Staff:     opts.staff,
	}, models.RequestMeta{UserAgent: "coursehubctl"})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
