package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	preferencesTable    = "preferences"
	cardsTable          = "cards"
	tagsTable           = "tags"
	cardTagsTable       = "card_tags"
	sessionResultsTable = "session_results"
	cardProgressTable   = "card_progress"
	llmEventsTable      = "llm_request_events"
)

var (
	preferencesColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	preferences = &schema.Table{
		Name:       preferencesTable,
		Columns:    preferencesColumns,
		PrimaryKey: []*schema.Column{preferencesColumns[0]},
	}

	cardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "english_word", Type: field.TypeString},
		{Name: "russian_translation", Type: field.TypeString},
		{Name: "notes", Type: field.TypeString, Default: ""},
		{Name: "difficulty_level", Type: field.TypeString, Default: ""},
		{Name: "is_learned", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	cards = &schema.Table{
		Name:       cardsTable,
		Columns:    cardsColumns,
		PrimaryKey: []*schema.Column{cardsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "card_english_word", Columns: []*schema.Column{cardsColumns[1]}},
		},
	}

	tagsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "is_predefined", Type: field.TypeBool, Default: false},
	}
	tags = &schema.Table{
		Name:       tagsTable,
		Columns:    tagsColumns,
		PrimaryKey: []*schema.Column{tagsColumns[0]},
	}

	cardTagsColumns = []*schema.Column{
		{Name: "card_id", Type: field.TypeString},
		{Name: "tag_id", Type: field.TypeString},
		{Name: "assigned_at", Type: field.TypeTime},
	}
	cardTags = &schema.Table{
		Name:       cardTagsTable,
		Columns:    cardTagsColumns,
		PrimaryKey: []*schema.Column{cardTagsColumns[0], cardTagsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "card_tags_card_id",
				Columns:    []*schema.Column{cardTagsColumns[0]},
				RefColumns: []*schema.Column{cardsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "card_tags_tag_id",
				Columns:    []*schema.Column{cardTagsColumns[1]},
				RefColumns: []*schema.Column{tagsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	sessionResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "mode", Type: field.TypeString},
		{Name: "cards_total", Type: field.TypeInt},
		{Name: "cards_correct", Type: field.TypeInt},
		{Name: "total_time_sec", Type: field.TypeInt},
		{Name: "card_results", Type: field.TypeJSON},
	}
	sessionResults = &schema.Table{
		Name:       sessionResultsTable,
		Columns:    sessionResultsColumns,
		PrimaryKey: []*schema.Column{sessionResultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_result_mode", Columns: []*schema.Column{sessionResultsColumns[3]}},
		},
	}

	cardProgressColumns = []*schema.Column{
		{Name: "card_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_answers", Type: field.TypeInt, Default: 0},
		{Name: "last_attempt", Type: field.TypeTime},
	}
	cardProgress = &schema.Table{
		Name:       cardProgressTable,
		Columns:    cardProgressColumns,
		PrimaryKey: []*schema.Column{cardProgressColumns[0], cardProgressColumns[1]},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEvents = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_event_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
			{Name: "llm_event_timestamp", Columns: []*schema.Column{llmEventsColumns[2]}},
		},
	}

	// tables lists every ent-managed table, parents before children.
	tables = []*schema.Table{
		preferences,
		cards,
		tags,
		cardTags,
		sessionResults,
		cardProgress,
		llmEvents,
	}
)

func init() {
	cardTags.ForeignKeys[0].RefTable = cards
	cardTags.ForeignKeys[1].RefTable = tags
}

// migrate creates or upgrades the ent-managed tables.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// builder returns the SQL builder for the store's dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
