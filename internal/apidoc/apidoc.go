// Package apidoc builds the OpenAPI 3 description of the HTTP API.
package apidoc

import (
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"
)

type Document struct {
	OpenAPI    string              `yaml:"openapi"`
	Info       Info                `yaml:"info"`
	Paths      map[string]PathItem `yaml:"paths"`
	Components Components          `yaml:"components"`
}

type Info struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type PathItem map[string]Operation // keyed by lower-case method

type Operation struct {
	Summary     string              `yaml:"summary"`
	Tags        []string            `yaml:"tags,omitempty"`
	Security    []map[string][]any  `yaml:"security,omitempty"`
	Parameters  []Parameter         `yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `yaml:"requestBody,omitempty"`
	Responses   map[string]Response `yaml:"responses"`
}

type Parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
	Schema   Schema `yaml:"schema"`
}

type RequestBody struct {
	Required bool                 `yaml:"required"`
	Content  map[string]MediaType `yaml:"content"`
}

type MediaType struct {
	Schema Schema `yaml:"schema"`
}

type Response struct {
	Description string               `yaml:"description"`
	Content     map[string]MediaType `yaml:"content,omitempty"`
}

type Schema struct {
	Ref        string            `yaml:"$ref,omitempty"`
	Type       string            `yaml:"type,omitempty"`
	Format     string            `yaml:"format,omitempty"`
	Required   []string          `yaml:"required,omitempty"`
	Properties map[string]Schema `yaml:"properties,omitempty"`
	Items      *Schema           `yaml:"items,omitempty"`
}

type Components struct {
	Schemas         map[string]Schema         `yaml:"schemas"`
	SecuritySchemes map[string]SecurityScheme `yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type         string `yaml:"type"`
	Scheme       string `yaml:"scheme"`
	BearerFormat string `yaml:"bearerFormat,omitempty"`
}

func ref(name string) Schema { return Schema{Ref: "#/components/schemas/" + name} }

func str() Schema { return Schema{Type: "string"} }

func jsonBody(s Schema) map[string]MediaType {
	return map[string]MediaType{"application/json": {Schema: s}}
}

func errResp(desc string) Response {
	return Response{Description: desc, Content: jsonBody(ref("Error"))}
}

var bearer = []map[string][]any{{"bearerAuth": {}}}

var idParam = []Parameter{{Name: "id", In: "path", Required: true, Schema: Schema{Type: "integer", Format: "int64"}}}

func petWriteBody() *RequestBody {
	return &RequestBody{Required: true, Content: map[string]MediaType{
		"application/json":    {Schema: ref("PetInput")},
		"multipart/form-data": {Schema: ref("PetForm")},
	}}
}

// Build returns the API description for the given release version.
func Build(version string) Document {
	petInputProps := map[string]Schema{
		"name":        str(),
		"age":         {Type: "integer"},
		"description": str(),
		"category":    str(),
		"location":    str(),
		"featured":    {Type: "boolean"},
		"new":         {Type: "boolean"},
	}
	petFormProps := map[string]Schema{"image": {Type: "string", Format: "binary"}}
	for k, v := range petInputProps {
		petFormProps[k] = v
	}
	petProps := map[string]Schema{
		"id":             {Type: "integer", Format: "int64"},
		"image":          str(),
		"user_id":        {Type: "integer", Format: "int64"},
		"owner_username": str(),
	}
	for k, v := range petInputProps {
		petProps[k] = v
	}

	return Document{
		OpenAPI: "3.0.3",
		Info:    Info{Title: "Pet adoption API", Version: version},
		Paths: map[string]PathItem{
			"/users/register": {"post": {
				Summary:     "Register an account (18+ only)",
				Tags:        []string{"users"},
				RequestBody: &RequestBody{Required: true, Content: jsonBody(ref("RegisterRequest"))},
				Responses: map[string]Response{
					"201": {Description: "created", Content: jsonBody(ref("RegisterResponse"))},
					"400": errResp("missing field, underage, bad date or duplicate username/email"),
				},
			}},
			"/users/login": {"post": {
				Summary:     "Exchange email and password for a bearer token",
				Tags:        []string{"users"},
				RequestBody: &RequestBody{Required: true, Content: jsonBody(ref("LoginRequest"))},
				Responses: map[string]Response{
					"200": {Description: "token issued", Content: jsonBody(ref("TokenResponse"))},
					"401": errResp("unknown email or wrong password"),
				},
			}},
			"/password/forgot": {"post": {
				Summary:     "Email a password reset link",
				Tags:        []string{"password"},
				RequestBody: &RequestBody{Required: true, Content: jsonBody(ref("ForgotPasswordRequest"))},
				Responses: map[string]Response{
					"200": {Description: "link sent", Content: jsonBody(ref("Message"))},
					"404": errResp("no account with that email"),
				},
			}},
			"/password/reset": {"post": {
				Summary:     "Set a new password with a recovery token",
				Tags:        []string{"password"},
				RequestBody: &RequestBody{Required: true, Content: jsonBody(ref("ResetPasswordRequest"))},
				Responses: map[string]Response{
					"200": {Description: "password changed", Content: jsonBody(ref("Message"))},
					"400": errResp("invalid or expired token, or empty password"),
				},
			}},
			"/pets": {
				"get": {
					Summary:   "List pets with owner usernames",
					Tags:      []string{"pets"},
					Responses: map[string]Response{"200": {Description: "pets", Content: jsonBody(Schema{Type: "array", Items: &Schema{Ref: "#/components/schemas/Pet"}})}},
				},
				"post": {
					Summary:     "Create a pet owned by the caller",
					Tags:        []string{"pets"},
					Security:    bearer,
					RequestBody: petWriteBody(),
					Responses: map[string]Response{
						"201": {Description: "created", Content: jsonBody(ref("Pet"))},
						"400": errResp("validation failed"),
						"401": errResp("missing bearer token"),
						"403": errResp("invalid token"),
					},
				},
			},
			"/pets/{id}": {
				"get": {
					Summary:    "Get one pet",
					Tags:       []string{"pets"},
					Parameters: idParam,
					Responses: map[string]Response{
						"200": {Description: "pet", Content: jsonBody(ref("Pet"))},
						"404": errResp("no such pet"),
					},
				},
				"put": {
					Summary:     "Replace a pet (owner or admin)",
					Tags:        []string{"pets"},
					Security:    bearer,
					Parameters:  idParam,
					RequestBody: petWriteBody(),
					Responses: map[string]Response{
						"200": {Description: "updated", Content: jsonBody(ref("Pet"))},
						"400": errResp("validation failed"),
						"401": errResp("missing bearer token"),
						"403": errResp("invalid token or not the owner"),
						"404": errResp("no such pet"),
					},
				},
				"delete": {
					Summary:    "Delete a pet (owner or admin)",
					Tags:       []string{"pets"},
					Security:   bearer,
					Parameters: idParam,
					Responses: map[string]Response{
						"200": {Description: "deleted", Content: jsonBody(ref("Message"))},
						"401": errResp("missing bearer token"),
						"403": errResp("invalid token or not the owner"),
						"404": errResp("no such pet"),
					},
				},
			},
			"/uploads/{name}": {"get": {
				Summary:    "Download a stored pet image",
				Tags:       []string{"pets"},
				Parameters: []Parameter{{Name: "name", In: "path", Required: true, Schema: str()}},
				Responses: map[string]Response{
					"200": {Description: "image bytes"},
					"404": errResp("no such file"),
				},
			}},
		},
		Components: Components{
			SecuritySchemes: map[string]SecurityScheme{
				"bearerAuth": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
			},
			Schemas: map[string]Schema{
				"Error":   {Type: "object", Properties: map[string]Schema{"error": str()}},
				"Message": {Type: "object", Properties: map[string]Schema{"message": str()}},
				"RegisterRequest": {
					Type:     "object",
					Required: []string{"username", "email", "password", "address", "cep", "phone", "city", "birthDate"},
					Properties: map[string]Schema{
						"username": str(), "email": str(), "password": str(), "address": str(),
						"cep": str(), "phone": str(), "city": str(), "birthDate": {Type: "string", Format: "date"},
					},
				},
				"RegisterResponse": {Type: "object", Properties: map[string]Schema{
					"userId": {Type: "integer", Format: "int64"}, "message": str(),
				}},
				"LoginRequest": {Type: "object", Required: []string{"email", "password"}, Properties: map[string]Schema{
					"email": str(), "password": str(),
				}},
				"TokenResponse": {Type: "object", Properties: map[string]Schema{
					"token": str(), "expiresIn": {Type: "integer"},
				}},
				"ForgotPasswordRequest": {Type: "object", Required: []string{"email"}, Properties: map[string]Schema{"email": str()}},
				"ResetPasswordRequest": {Type: "object", Required: []string{"token", "newPassword"}, Properties: map[string]Schema{
					"token": str(), "newPassword": str(),
				}},
				"PetInput": {Type: "object", Required: []string{"name"}, Properties: petInputProps},
				"PetForm":  {Type: "object", Required: []string{"name"}, Properties: petFormProps},
				"Pet":      {Type: "object", Properties: petProps},
			},
		},
	}
}

// Handler serves the document as YAML. It is rendered once on first use.
func Handler(version string) http.HandlerFunc {
	var (
		once sync.Once
		body []byte
		err  error
	)
	return func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { body, err = yaml.Marshal(Build(version)) })
		if err != nil {
			http.Error(w, "api document unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(body)
	}
}
