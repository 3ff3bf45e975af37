package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/unclebandit/campaign-access-backend/internal/config"
	"github.com/unclebandit/campaign-access-backend/internal/db"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/repository"
	"github.com/unclebandit/campaign-access-backend/internal/validate"
)

// Fixtures is the layout of the seed file.
type Fixtures struct {
	CustomFields []FieldFixture    `yaml:"customFields"`
	Campaigns    []CampaignFixture `yaml:"campaigns"`
}

type FieldFixture struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Placeholder string   `yaml:"placeholder"`
	Description string   `yaml:"description"`
	Options     []string `yaml:"options"`
}

type CampaignFixture struct {
	Name           string         `yaml:"name"`
	Status         string         `yaml:"status"`
	Delivery       string         `yaml:"delivery"`
	Results        string         `yaml:"results"`
	Budget         string         `yaml:"budget"`
	AmountSpent    string         `yaml:"amountSpent"`
	Impressions    string         `yaml:"impressions"`
	Reach          string         `yaml:"reach"`
	EndDate        string         `yaml:"endDate"`
	Active         bool           `yaml:"active"`
	Objective      string         `yaml:"objective"`
	BidStrategy    string         `yaml:"bidStrategy"`
	DailyBudget    string         `yaml:"dailyBudget"`
	StartDate      string         `yaml:"startDate"`
	TargetAudience string         `yaml:"targetAudience"`
	Placement      string         `yaml:"placement"`
	CustomFields   map[string]any `yaml:"customFields"`
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Campaign builds a campaign from the fixture on top of the usual defaults.
func (f CampaignFixture) Campaign() *model.Campaign {
	c := model.NewCampaign()
	c.Name = f.Name
	c.Active = f.Active
	c.Objective = f.Objective
	setIf(&c.Status, f.Status)
	setIf(&c.Delivery, f.Delivery)
	setIf(&c.Results, f.Results)
	setIf(&c.Budget, f.Budget)
	setIf(&c.AmountSpent, f.AmountSpent)
	setIf(&c.Impressions, f.Impressions)
	setIf(&c.Reach, f.Reach)
	setIf(&c.EndDate, f.EndDate)
	setIf(&c.BidStrategy, f.BidStrategy)
	setIf(&c.DailyBudget, f.DailyBudget)
	setIf(&c.StartDate, f.StartDate)
	setIf(&c.TargetAudience, f.TargetAudience)
	setIf(&c.Placement, f.Placement)
	for k, v := range f.CustomFields {
		c.CustomFields[k] = v
	}
	return c
}

func (f FieldFixture) CustomField() *model.CustomField {
	field := &model.CustomField{
		Name:        f.Name,
		Label:       f.Label,
		Type:        f.Type,
		Required:    f.Required,
		Placeholder: f.Placeholder,
		Description: f.Description,
		Options:     f.Options,
		IsActive:    true,
	}
	if field.Type == "" {
		field.Type = model.CustomFieldText
	}
	if field.Options == nil {
		field.Options = []string{}
	}
	return field
}

type FieldStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, f *model.CustomField) error
}

type CampaignStore interface {
	Create(ctx context.Context, c *model.Campaign) error
}

type report struct {
	Fields, SkippedFields, Campaigns int
}

// seed inserts fixtures, leaving custom fields that already exist alone.
func seed(ctx context.Context, fx Fixtures, fields FieldStore, campaigns CampaignStore, logger *slog.Logger) (report, error) {
	var r report
	for _, ff := range fx.CustomFields {
		f := ff.CustomField()
		exists, err := fields.ExistsByName(ctx, f.Name)
		if err != nil {
			return r, err
		}
		if exists {
			logger.Info("custom field exists, skipping", "name", f.Name)
			r.SkippedFields++
			continue
		}
		if err := validate.Struct(f); err != nil {
			return r, fmt.Errorf("custom field %q: %w", f.Name, err)
		}
		if err := fields.Create(ctx, f); err != nil {
			return r, fmt.Errorf("custom field %q: %w", f.Name, err)
		}
		r.Fields++
	}
	for _, cf := range fx.Campaigns {
		c := cf.Campaign()
		if err := validate.Struct(c); err != nil {
			return r, fmt.Errorf("campaign %q: %w", c.Name, err)
		}
		if err := campaigns.Create(ctx, c); err != nil {
			return r, fmt.Errorf("campaign %q: %w", c.Name, err)
		}
		r.Campaigns++
	}
	return r, nil
}

func loadFixtures(path string) (Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read %s: %w", path, err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fx, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("seeder", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	file := flags.String("file", "seed/fixtures.yaml", "YAML fixtures to insert")
	migrate := flags.Bool("migrate", true, "apply the database schema before seeding")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	_ = godotenv.Load(*envFile)
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	fx, err := loadFixtures(*file)
	if err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	if *migrate {
		if err := db.Migrate(ctx, conn); err != nil {
			return err
		}
	}

	r, err := seed(ctx, fx, &repository.CustomFieldRepository{DB: conn}, &repository.CampaignRepository{DB: conn}, logger)
	if err != nil {
		return err
	}
	logger.Info("database seeding completed",
		"file", *file, "custom_fields", r.Fields, "skipped_fields", r.SkippedFields, "campaigns", r.Campaigns)
	return nil
}
