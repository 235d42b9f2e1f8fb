package config

import (
	"fmt"
	"sort"

	"github.com/atlanticdynamic/devserve/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree renders the config as a lipgloss tree
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render("devserve config"))

	server := fancy.Section("Server")
	server.Child(fancy.KV("Listen", cfg.Listen))
	server.Child(fancy.KV("URL", cfg.ListenURL()))
	server.Child(fancy.KV("Root", cfg.Root))
	server.Child(fancy.KV("No-cache", cfg.NoCache))
	t.Child(server)

	token := fancy.Section("Token")
	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = "(disabled)"
	}
	token.Child(fancy.KV("Env file", envFile))
	token.Child(fancy.KV("Key", cfg.Token.Key))
	t.Child(token)

	entry := fancy.Section("Entry")
	entry.Child(fancy.KV("Path", cfg.Entry.Path))
	entry.Child(fancy.KV("File", cfg.Entry.File))
	entry.Child(fancy.KV("Placeholder", cfg.Entry.Placeholder))
	t.Child(entry)

	if !cfg.Headers.IsEmpty() {
		headers := fancy.Section("Headers")
		for _, k := range sortedKeys(cfg.Headers.Set) {
			headers.Child(fmt.Sprintf("set %s: %s", k, cfg.Headers.Set[k]))
		}
		for _, k := range sortedKeys(cfg.Headers.Add) {
			headers.Child(fmt.Sprintf("add %s: %s", k, cfg.Headers.Add[k]))
		}
		for _, k := range cfg.Headers.Remove {
			headers.Child("remove " + k)
		}
		t.Child(headers)
	}

	timeouts := fancy.Section("Timeouts")
	timeouts.Child(fancy.KV("Read", cfg.Timeouts.Read))
	timeouts.Child(fancy.KV("Write", cfg.Timeouts.Write))
	timeouts.Child(fancy.KV("Idle", cfg.Timeouts.Idle))
	timeouts.Child(fancy.KV("Drain", cfg.Timeouts.Drain))
	t.Child(timeouts)

	logs := fancy.Section("Logging")
	logs.Child(fancy.KV("Level", cfg.Log.Level))
	logs.Child(fancy.KV("Format", cfg.Log.Format))
	logs.Child(fancy.KV("Output", cfg.Log.Output))
	logs.Child(fancy.KV("Access log", cfg.Log.Access))
	t.Child(logs)

	return t.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
