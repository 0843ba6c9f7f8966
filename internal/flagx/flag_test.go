package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	server := []string{"-a", "-d", "-w", "-x", "-i"}
	config := []string{"-c", "-config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server flags kept, config flag dropped",
			args:    []string{"-c", "prod.json", "-a", ":50051", "-w", "5m"},
			allowed: server,
			want:    []string{"-a", ":50051", "-w", "5m"},
		},
		{
			name:    "config flag kept, server flags dropped",
			args:    []string{"-c", "prod.json", "-a", ":50051", "-w", "5m"},
			allowed: config,
			want:    []string{"-c", "prod.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-x=2m", "-config=alt.json", "-i=30s"},
			allowed: server,
			want:    []string{"-x=2m", "-i=30s"},
		},
		{
			name:    "equals value starting with a dash",
			args:    []string{"-config=-odd.json"},
			allowed: config,
			want:    []string{"-config=-odd.json"},
		},
		{
			name:    "empty dsn value is still a value",
			args:    []string{"-d", "", "-a", ":1"},
			allowed: server,
			want:    []string{"-d", "", "-a", ":1"},
		},
		{
			name:    "flag at the end keeps no value",
			args:    []string{"-a", ":50051", "-i"},
			allowed: server,
			want:    []string{"-a", ":50051", "-i"},
		},
		{
			name:    "next flag is never consumed as a value",
			args:    []string{"-w", "-x", "10m"},
			allowed: server,
			want:    []string{"-w", "-x", "10m"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-v", "1", "--verbose=true", "serve"},
			allowed: server,
			want:    []string{},
		},
		{
			name:    "repeated flag keeps order",
			args:    []string{"-a", ":1", "-a", ":2"},
			allowed: server,
			want:    []string{"-a", ":1", "-a", ":2"},
		},
		{
			name:    "no args",
			args:    nil,
			allowed: server,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", ConfigFile())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", ConfigFile())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, ConfigFile())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", ConfigFile())
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/etc/auction/server.json")
		os.Args = []string{"testbin", "-a", ":50051"}
		assert.Equal(t, "/etc/auction/server.json", ConfigFile())
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/etc/auction/server.json")
		os.Args = []string{"testbin", "-c", "local.json"}
		assert.Equal(t, "local.json", ConfigFile())
	})
}
