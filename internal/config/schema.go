package config

// ConfigSchema is the JSON schema for the config file
const ConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "spreadsheet": {
      "type": "object",
      "properties": {
        "path": {"type": "string"},
        "sheet": {"type": "string"},
        "name_column": {"type": "string", "minLength": 1},
        "date_column": {"type": "string", "minLength": 1}
      }
    },
    "assets": {
      "type": "object",
      "properties": {
        "base_dir": {"type": "string"},
        "file_prefix": {"type": "string"},
        "file_extension": {"type": "string", "pattern": "^\\.[A-Za-z0-9]+$"}
      }
    },
    "whatsapp": {
      "type": "object",
      "properties": {
        "base_url": {"type": "string", "pattern": "^https?://"},
        "group_url": {"type": "string"},
        "caption": {"type": "string"},
        "ready_selector": {"type": "string"},
        "selectors": {
          "type": "object",
          "additionalProperties": {"type": "string"}
        }
      }
    },
    "browser": {
      "type": "object",
      "properties": {
        "profile_dir": {"type": "string"},
        "headless": {"type": "boolean"},
        "no_sandbox": {"type": "boolean"},
        "chrome_path": {"type": "string"},
        "args": {"type": "array", "items": {"type": "string"}},
        "min_chrome_version": {"type": "string"},
        "allowed_domains": {"type": "array", "items": {"type": "string", "minLength": 1}}
      }
    },
    "timeouts": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 1}
    },
    "pauses": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 0}
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "file": {"type": "string"},
        "console": {"type": "boolean"},
        "max_size": {"type": "integer", "minimum": 0},
        "max_age": {"type": "integer", "minimum": 0},
        "compress": {"type": "boolean"},
        "redaction": {"type": "boolean"}
      }
    },
    "metrics": {
      "type": "object",
      "properties": {
        "textfile": {"type": "string"}
      }
    },
    "data_dir": {"type": "string"}
  }
}`
