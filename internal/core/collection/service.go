// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/kumiko/internal/engine"
	"github.com/taibuivan/kumiko/internal/platform/validate"
	"github.com/taibuivan/kumiko/pkg/slug"
	"github.com/taibuivan/kumiko/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates business rules for collections and field schemas.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new collection [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Collection Management

/*
List retrieves a paginated list of a workspace's collections.

Parameters:
  - context: context.Context
  - workspaceID: string
  - limit, offset: int

Returns:
  - []*Collection: List of collections
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) List(context context.Context, workspaceID string, limit, offset int) ([]*Collection, int, error) {
	return service.repo.List(context, workspaceID, limit, offset)
}

/*
Get retrieves a collection by its UUID or slug identifier.

Parameters:
  - context: context.Context
  - workspaceID: string
  - identifier: string

Returns:
  - *Collection: Hydrated entity including Fields
  - error: ErrNotFound if missing
*/
func (service *Service) Get(context context.Context, workspaceID, identifier string) (*Collection, error) {

	// Discriminator: ID vs Slug
	// UUIDs have a fixed length of 36 characters in standard hyphenated format.
	if len(identifier) == 36 {
		return service.repo.FindByID(context, workspaceID, identifier)
	}

	return service.repo.FindBySlug(context, workspaceID, identifier)
}

/*
ResolveSlugs maps collection slugs to ids inside one workspace.

Parameters:
  - context: context.Context
  - workspaceID: string
  - slugs: []string

Returns:
  - map[string]string: slug → collection id (missing slugs absent)
  - error: Retrieval errors
*/
func (service *Service) ResolveSlugs(context context.Context, workspaceID string, slugs []string) (map[string]string, error) {
	return service.repo.ResolveSlugs(context, workspaceID, slugs)
}

/*
Create registers a new collection and its field definitions.

Description: The slug is derived from the name in identifier form (snake_case)
so the collection can appear in join and qualified-field position of a
composition query. Field slugs follow the same rule.

Parameters:
  - context: context.Context
  - entity: *Collection (Name and Fields supplied by the caller)

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, entity *Collection) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, entity.Name).MaxLen(FieldName, entity.Name, 120)

	entity.Slug = slug.Identifier(entity.Name)
	validator.Custom(FieldSlug, entity.Slug == "", "Name must contain at least one usable character")

	normalizeFields(validator, entity.Fields)

	if err := validator.Err(); err != nil {
		return err
	}

	entity.ID = uuidv7.New()
	for index := range entity.Fields {
		entity.Fields[index].ID = uuidv7.New()
		entity.Fields[index].CollectionID = entity.ID
		entity.Fields[index].Position = index
	}

	if err := service.repo.Create(context, entity); err != nil {
		return err
	}

	service.logger.Info("collection_created",
		slog.String("collection_id", entity.ID),
		slog.String("workspace_id", entity.WorkspaceID),
		slog.String("slug", entity.Slug),
	)

	return nil
}

/*
Update modifies a collection's name and description. The slug is immutable:
stored compositions reference it.

Parameters:
  - context: context.Context
  - entity: *Collection

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) Update(context context.Context, entity *Collection) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, entity.Name).MaxLen(FieldName, entity.Name, 120)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Update(context, entity); err != nil {
		return err
	}

	service.logger.Info("collection_updated", slog.String("collection_id", entity.ID))

	return nil
}

/*
ReplaceFields swaps a collection's field definitions.

Parameters:
  - context: context.Context
  - workspaceID: string
  - collectionID: string
  - fields: []Field

Returns:
  - *Collection: The collection with its new schema
  - error: Validation or persistence failures
*/
func (service *Service) ReplaceFields(context context.Context, workspaceID, collectionID string, fields []Field) (*Collection, error) {

	// Ownership check before any mutation.
	entity, err := service.repo.FindByID(context, workspaceID, collectionID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	normalizeFields(validator, fields)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	for index := range fields {
		fields[index].ID = uuidv7.New()
		fields[index].CollectionID = entity.ID
		fields[index].Position = index
	}

	if err := service.repo.ReplaceFields(context, entity.ID, fields); err != nil {
		return nil, err
	}

	entity.Fields = fields

	service.logger.Info("collection_fields_replaced",
		slog.String("collection_id", entity.ID),
		slog.Int("field_count", len(fields)),
	)

	return entity, nil
}

/*
Delete removes a collection together with its fields and records.

Parameters:
  - context: context.Context
  - workspaceID: string
  - id: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Delete(context context.Context, workspaceID, id string) error {
	if err := service.repo.Delete(context, workspaceID, id); err != nil {
		return err
	}

	service.logger.Info("collection_deleted",
		slog.String("collection_id", id),
		slog.String("workspace_id", workspaceID),
	)

	return nil
}

// # Field Schema Rules

// normalizeFields derives field slugs and accumulates schema validation
// errors. Field slugs must survive the engine's identifier check because
// record documents key on them and queries extract them.
func normalizeFields(validator *validate.Validator, fields []Field) {
	seen := make(map[string]bool, len(fields))

	for index := range fields {
		field := &fields[index]
		position := fmt.Sprintf("%s[%d]", FieldFields, index)

		validator.Required(position+".name", field.Name)
		validator.Custom(position+".type", !field.Type.Valid(),
			fmt.Sprintf("Unsupported field type %q", field.Type))

		if field.Slug == "" {
			field.Slug = slug.Identifier(field.Name)
		}

		if _, err := engine.SanitizeIdentifier(field.Slug); err != nil {
			validator.Custom(position+".slug", true,
				fmt.Sprintf("Slug %q is not a valid identifier", field.Slug))
		}

		validator.Custom(position+".slug", seen[field.Slug],
			fmt.Sprintf("Duplicate field slug %q", field.Slug))
		seen[field.Slug] = true

		// Choice-backed types need at least one choice to validate against.
		if field.Type == TypeSelect || field.Type == TypeMultiSelect {
			hasChoices := field.Options != nil && len(field.Options.Choices) > 0
			validator.Custom(position+".options.choices", !hasChoices,
				"Select fields require a non-empty choices list")
		}
	}
}
