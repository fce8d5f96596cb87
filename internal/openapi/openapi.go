// Package openapi builds the OpenAPI 3.0 description of the user directory
// HTTP API. The User schema is derived from the Go type so the document and
// the wire format cannot drift apart.
package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/alfagnish/userdir/internal/directory"
	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

const (
	Version = "3.0.3"
	Title   = "User Health Records API"
)

// Document is the subset of the OpenAPI object model this service needs.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`
}

type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

type PathItem struct {
	Get  *Operation `json:"get,omitempty"`
	Post *Operation `json:"post,omitempty"`
	Put  *Operation `json:"put,omitempty"`
}

type Operation struct {
	Summary     string              `json:"summary"`
	OperationID string              `json:"operationId"`
	Tags        []string            `json:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

type Parameter struct {
	Name        string    `json:"name"`
	In          string    `json:"in"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
	Schema      SchemaRef `json:"schema"`
}

type RequestBody struct {
	Required bool                 `json:"required"`
	Content  map[string]MediaType `json:"content"`
}

type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema SchemaRef `json:"schema"`
}

// SchemaRef is either a $ref into components or an inline schema.
type SchemaRef struct {
	Ref   string     `json:"$ref,omitempty"`
	Type  string     `json:"type,omitempty"`
	Items *SchemaRef `json:"items,omitempty"`
}

type Components struct {
	Schemas map[string]*jsonschema.Schema `json:"schemas"`
}

func ref(name string) SchemaRef { return SchemaRef{Ref: "#/components/schemas/" + name} }

func jsonContent(s SchemaRef) map[string]MediaType {
	return map[string]MediaType{"application/json": {Schema: s}}
}

// Build assembles the document, advertising serverURL as the API base.
func Build(serverURL string) (*Document, error) {
	user, err := jsonschema.For[directory.User](nil)
	if err != nil {
		return nil, fmt.Errorf("deriving User schema: %w", err)
	}
	// Records are stored as sent: no field is required and extra fields are
	// kept.
	user.Required = nil
	user.AdditionalProperties = nil
	user.Description = "A user health record. Stored and returned exactly as submitted."

	patch := *user
	patch.Description = "Fields to merge into an existing user. name must match the stored value if present."

	errSchema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"error"},
		Properties: map[string]*jsonschema.Schema{
			"error": {Type: "string"},
		},
	}

	idParam := Parameter{
		Name:        "id",
		In:          "path",
		Required:    true,
		Description: "User id",
		Schema:      SchemaRef{Type: "integer"},
	}
	notFound := Response{Description: "User not found", Content: jsonContent(ref("Error"))}
	tags := []string{"users"}

	doc := &Document{
		OpenAPI: Version,
		Info: Info{
			Title:       Title,
			Version:     "1.0.0",
			Description: "In-memory directory of user health records.",
		},
		Paths: map[string]PathItem{
			"/users": {
				Get: &Operation{
					Summary:     "List all users",
					OperationID: "listUsers",
					Tags:        tags,
					Responses: map[string]Response{
						"200": {
							Description: "All users in insertion order",
							Content:     jsonContent(SchemaRef{Type: "array", Items: &SchemaRef{Ref: "#/components/schemas/User"}}),
						},
					},
				},
				Post: &Operation{
					Summary:     "Create a user",
					OperationID: "createUser",
					Tags:        tags,
					RequestBody: &RequestBody{Required: true, Content: jsonContent(ref("User"))},
					Responses: map[string]Response{
						"201": {Description: "The created user", Content: jsonContent(ref("User"))},
						"400": {Description: "Malformed JSON body", Content: jsonContent(ref("Error"))},
					},
				},
			},
			"/users/{id}": {
				Get: &Operation{
					Summary:     "Get a user by id",
					OperationID: "getUser",
					Tags:        tags,
					Parameters:  []Parameter{idParam},
					Responses: map[string]Response{
						"200": {Description: "The user", Content: jsonContent(ref("User"))},
						"404": notFound,
					},
				},
				Put: &Operation{
					Summary:     "Update a user by id",
					OperationID: "updateUser",
					Tags:        tags,
					Parameters:  []Parameter{idParam},
					RequestBody: &RequestBody{Required: true, Content: jsonContent(ref("UserPatch"))},
					Responses: map[string]Response{
						"200": {Description: "The updated user", Content: jsonContent(ref("User"))},
						"400": {Description: "User name cannot be changed", Content: jsonContent(ref("Error"))},
						"404": notFound,
					},
				},
			},
			"/healthz": {
				Get: &Operation{
					Summary:     "Liveness check",
					OperationID: "health",
					Tags:        []string{"system"},
					Responses: map[string]Response{
						"200": {Description: "Service is up", Content: jsonContent(SchemaRef{Type: "object"})},
					},
				},
			},
		},
		Components: Components{
			Schemas: map[string]*jsonschema.Schema{
				"User":      user,
				"UserPatch": &patch,
				"Error":     errSchema,
			},
		},
	}
	if serverURL != "" {
		doc.Servers = []Server{{URL: serverURL}}
	}
	return doc, nil
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML renders the document as YAML. It goes through JSON first so the
// json tags and custom marshalers of the schema types are honoured.
func (d *Document) YAML() ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("decoding document as yaml: %w", err)
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle undoes the flow and quoted styles yaml.v3 records when parsing
// JSON input.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
