// Package config loads the server configuration from the `server:` section
// of config.yaml.
//
// Config fields:
//   - ListenPort        — TCP port for the WebSocket listener (default 8000)
//   - WSPath            — HTTP path serving WebSocket upgrades (default "/ws")
//   - BroadcastInterval — producer firing period (default 10s)
//   - PollTimeout       — reactor park bound per iteration (default 200ms)
//   - WorkQueue.Capacity       — bounded work channel depth (default 64)
//   - WorkQueue.EnqueueTimeout — producer wait bound on a full queue (default 5ms)
//   - NetProbeInterval  — network readiness re-check period (default 2s)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) re-loads the file on modification so the
// broadcast interval can change without a restart.
package config
