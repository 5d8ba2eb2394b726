package config

import (
	"bytes"
	"strings"
	"sync"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema is the JSON schema every JSON config document must satisfy
// before it is decoded. Structural mistakes (wrong types, unknown checksum
// algorithms) are reported with a JSON pointer instead of a decode error.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "applications": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "url": {"type": "string", "minLength": 1},
          "download_dir": {"type": "string"},
          "pattern": {"type": "string"},
          "source_type": {"type": "string", "enum": ["", "github", "gitlab", "sourceforge", "direct"]},
          "enabled": {"type": "boolean"},
          "prerelease": {"type": "boolean"},
          "checksum": {
            "type": "object",
            "properties": {
              "enabled": {"type": "boolean"},
              "pattern": {"type": "string"},
              "algorithm": {"type": "string", "enum": ["sha256", "sha1", "md5"]},
              "required": {"type": "boolean"}
            }
          },
          "signature": {
            "type": "object",
            "properties": {
              "enabled": {"type": "boolean"},
              "public_key": {"type": "string"}
            }
          },
          "hooks": {
            "type": "object",
            "properties": {
              "pre_update": {"type": "string"},
              "post_update": {"type": "string"}
            }
          },
          "rotation_enabled": {"type": "boolean"},
          "symlink_path": {"type": "string"},
          "retain_count": {"type": "integer", "minimum": 1}
        },
        "required": ["name", "url"]
      }
    },
    "settings": {
      "type": "object",
      "properties": {
        "timeout_seconds": {"type": "integer", "minimum": 0},
        "concurrent_downloads": {"type": "integer", "minimum": 1},
        "user_agent": {"type": "string"},
        "log_level": {"type": "string", "enum": ["debug", "info", "warn", "error"]}
      }
    },
    "domain_knowledge": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"}
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func schema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
		if err != nil {
			compileSchemaError = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.schema.json", doc); err != nil {
			compileSchemaError = err
			return
		}
		compiledSchema, compileSchemaError = compiler.Compile("config.schema.json")
	})
	return compiledSchema, compileSchemaError
}

// validateSchema checks a raw JSON config document against the embedded schema.
func validateSchema(data []byte) error {
	sch, err := schema()
	if err != nil {
		return errors.Wrap(err, "failed to compile config schema")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	if err := sch.Validate(inst); err != nil {
		return errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	return nil
}
