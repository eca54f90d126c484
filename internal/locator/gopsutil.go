// ABOUTME: OS-backed ProcessSource built on gopsutil
// ABOUTME: Enumerates process command lines and per-PID loopback TCP listeners

package locator

import (
	"context"
	"net"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// systemSource asks the operating system via gopsutil.
type systemSource struct{}

func (systemSource) Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			// Processes we cannot inspect are not candidates.
			continue
		}
		out = append(out, Process{PID: p.Pid, Cmdline: cmdline})
	}
	return out, nil
}

func (systemSource) ListeningPorts(ctx context.Context, pid int32) ([]int, error) {
	conns, err := gnet.ConnectionsPidWithContext(ctx, "tcp", pid)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{})
	var ports []int
	for _, conn := range conns {
		if conn.Status != "LISTEN" {
			continue
		}
		ip := net.ParseIP(conn.Laddr.IP)
		if ip == nil || !ip.IsLoopback() {
			continue
		}
		port := int(conn.Laddr.Port)
		if _, dup := seen[port]; dup {
			continue
		}
		seen[port] = struct{}{}
		ports = append(ports, port)
	}
	return ports, nil
}
