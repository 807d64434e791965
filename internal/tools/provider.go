package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
)

// ReadFileInput parameters for read_file tool
type ReadFileInput struct {
	Path string `json:"path" jsonschema:"required,description=Path of the file to read"`
}

type readFileToolImpl struct {
	store *Store
}

func (t *readFileToolImpl) execute(ctx context.Context, input *ReadFileInput) (string, error) {
	return t.store.ReadFile(input.Path)
}

// NewReadFileTool creates the read_file tool
func NewReadFileTool(store *Store) (tool.InvokableTool, error) {
	impl := &readFileToolImpl{store: store}
	return utils.InferTool("read_file", "Read the contents of a file", impl.execute)
}

// SearchFilesInput parameters for search_files tool
type SearchFilesInput struct {
	Query string `json:"query" jsonschema:"required,description=Substring to match against file paths"`
}

type searchFilesToolImpl struct {
	store *Store
}

func (t *searchFilesToolImpl) execute(ctx context.Context, input *SearchFilesInput) ([]string, error) {
	return t.store.SearchFiles(input.Query), nil
}

// NewSearchFilesTool creates the search_files tool
func NewSearchFilesTool(store *Store) (tool.InvokableTool, error) {
	impl := &searchFilesToolImpl{store: store}
	return utils.InferTool("search_files", "Search file paths by substring", impl.execute)
}

// DeleteFileInput parameters for delete_file tool
type DeleteFileInput struct {
	Path string `json:"path" jsonschema:"required,description=Path of the file to delete"`
}

type deleteFileToolImpl struct {
	store *Store
}

func (t *deleteFileToolImpl) execute(ctx context.Context, input *DeleteFileInput) (string, error) {
	if err := t.store.DeleteFile(input.Path); err != nil {
		return "", err
	}
	return "deleted", nil
}

// NewDeleteFileTool creates the delete_file tool
func NewDeleteFileTool(store *Store) (tool.InvokableTool, error) {
	impl := &deleteFileToolImpl{store: store}
	return utils.InferTool("delete_file", "Delete a file", impl.execute)
}

// GetRecordInput parameters for get_record tool
type GetRecordInput struct {
	Key string `json:"key" jsonschema:"required,description=Record key to look up"`
}

type getRecordToolImpl struct {
	store *Store
}

func (t *getRecordToolImpl) execute(ctx context.Context, input *GetRecordInput) (map[string]string, error) {
	return t.store.GetRecord(input.Key)
}

// NewGetRecordTool creates the get_record tool
func NewGetRecordTool(store *Store) (tool.InvokableTool, error) {
	impl := &getRecordToolImpl{store: store}
	return utils.InferTool("get_record", "Fetch a record by key", impl.execute)
}

// UpdateRecordInput parameters for update_record tool
type UpdateRecordInput struct {
	Key   string `json:"key" jsonschema:"required,description=Record key to update"`
	Patch string `json:"patch" jsonschema:"required,description=Single field=value patch to apply"`
}

type updateRecordToolImpl struct {
	store *Store
}

func (t *updateRecordToolImpl) execute(ctx context.Context, input *UpdateRecordInput) (map[string]string, error) {
	field, value, err := SplitPatch(input.Patch)
	if err != nil {
		return nil, err
	}
	return t.store.UpdateRecord(input.Key, field, value)
}

// NewUpdateRecordTool creates the update_record tool
func NewUpdateRecordTool(store *Store) (tool.InvokableTool, error) {
	impl := &updateRecordToolImpl{store: store}
	return utils.InferTool("update_record", "Apply a field=value patch to a record", impl.execute)
}

// SplitPatch parses a "field=value" patch string.
func SplitPatch(patch string) (field, value string, err error) {
	field, value, found := strings.Cut(patch, "=")
	if !found || strings.TrimSpace(field) == "" {
		return "", "", fmt.Errorf("invalid patch %q, expected field=value", patch)
	}
	return field, value, nil
}

// RegisterProviderTools registers the five provider tools backed by store.
func RegisterProviderTools(registry *Registry, store *Store) error {
	toolFns := []func() (tool.InvokableTool, error){
		func() (tool.InvokableTool, error) { return NewReadFileTool(store) },
		func() (tool.InvokableTool, error) { return NewSearchFilesTool(store) },
		func() (tool.InvokableTool, error) { return NewDeleteFileTool(store) },
		func() (tool.InvokableTool, error) { return NewGetRecordTool(store) },
		func() (tool.InvokableTool, error) { return NewUpdateRecordTool(store) },
	}

	for _, fn := range toolFns {
		t, err := fn()
		if err != nil {
			return err
		}
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
