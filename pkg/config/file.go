package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# Soft Board Server configurations

# The name of the server.
name: "{{ .Name }}"

# The HTTP API server configuration.
http:
  # Enable the HTTP API.
  enabled: {{ .HTTP.Enabled }}

  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The public URL of the HTTP server.
  # This is the address that clients use to reach the server and the issuer
  # of access tokens.
  public_url: "{{ .HTTP.PublicURL }}"

# The stats server configuration.
stats:
  # Enable the stats server.
  enabled: {{ .Stats.Enabled }}

  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# The logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite" and "postgres".
  driver: "{{ .DB.Driver }}"
  # The database data source name.
  # This is driver specific and can be a file path or connection string.
  # Make sure foreign key support is enabled when using SQLite.
  data_source: "{{ .DB.DataSource }}"

# Access token configuration.
auth:
  # The relative path to the Ed25519 key used to sign access tokens.
  key_path: "{{ .Auth.KeyPath }}"
  # How long issued access tokens are valid.
  token_expiry: "{{ .Auth.TokenExpiry }}"

# Board collaboration policy.
boards:
  # The minimum role a member needs to invite others.
  # Valid values are "ADMIN" and "MEMBER".
  invite_role: "{{ .Boards.InviteRole }}"

# Cron job configuration
jobs:
  # Schedule of the read notification cleanup.
  notification_prune: "{{ .Jobs.NotificationPrune }}"
  # How long read notifications are kept before cleanup.
  notification_retention: "{{ .Jobs.NotificationRetention }}"
`))

func newConfigFile(cfg *Config) string {
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}
