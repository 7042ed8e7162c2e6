package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"github.com/tahlil-one/tahlil/internal/pkg/subscription"
)

type grantCmd struct {
	user string
	tier string
	days int
}

func (*grantCmd) Name() string     { return "grant" }
func (*grantCmd) Synopsis() string { return "activate a subscription tier for a user" }
func (*grantCmd) Usage() string {
	return `tahlilctl grant -user <user_id> -tier <Beginner|Advanced|Premium> -days <n>
`
}

func (c *grantCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "User ID.")
	f.StringVar(&c.tier, "tier", "", "Subscription tier.")
	f.IntVar(&c.days, "days", 30, "Number of days from now.")
}

func (c *grantCmd) validate() error {
	if c.user == "" {
		return fmt.Errorf("-user is required")
	}
	if !entitlements.IsConcrete(entitlements.ParseTier(c.tier)) {
		return fmt.Errorf("-tier must be Beginner, Advanced or Premium, got %q", c.tier)
	}
	if c.days <= 0 {
		return fmt.Errorf("-days must be positive")
	}
	return nil
}

func (c *grantCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	svc := subscription.NewServiceFromDB(openDB())
	user, err := svc.Grant(ctx, c.user, entitlements.Tier(c.tier), c.days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "grant failed: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %s until %s\n", user.UserID, user.SubscriptionType, user.SubscriptionEndDate.Format(time.RFC3339))
	return subcommands.ExitSuccess
}
