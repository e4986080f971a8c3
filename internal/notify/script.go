package notify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ScriptNotifier runs a local command with the drift summary in its environment
// and the message body on stdin
type ScriptNotifier struct {
	path  string
	args  []string
	shell string
}

// NewScriptNotifier creates a new script notifier
func NewScriptNotifier(config ScriptConfig) *ScriptNotifier {
	n := &ScriptNotifier{
		path:  config.Path,
		args:  append([]string(nil), config.Args...),
		shell: config.Shell,
	}
	return n
}

func (n *ScriptNotifier) Name() string { return ChannelScript }

func (n *ScriptNotifier) Notify(ctx context.Context, msg *Message) error {
	var cmd *exec.Cmd
	if n.shell != "" {
		cmd = exec.CommandContext(ctx, n.shell, append([]string{n.path}, n.args...)...)
	} else {
		cmd = exec.CommandContext(ctx, n.path, n.args...)
	}

	cmd.Env = append(os.Environ(),
		"DRIFTGUARD_RUN_ID="+msg.Report.RunID,
		"DRIFTGUARD_BASELINE="+msg.Report.BaselinePath,
		"DRIFTGUARD_CURRENT="+msg.Report.CurrentPath,
		"DRIFTGUARD_DRIFTED_KEYS="+strings.Join(msg.Report.Keys(), ","),
		"DRIFTGUARD_REVERTED="+strconv.FormatBool(msg.Reverted),
		"DRIFTGUARD_ACTION="+msg.Action,
		"DRIFTGUARD_SUBJECT="+msg.Subject,
	)
	cmd.Stdin = strings.NewReader(msg.Body)

	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("script failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	return nil
}
