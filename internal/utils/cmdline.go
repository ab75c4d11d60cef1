package utils

import (
	"os"
	"strings"
)

// GetHostProcCmdline returns the path of the kernel cmdline, overridable with HOST_PROC_CMDLINE.
func GetHostProcCmdline() string {
	proc := os.Getenv("HOST_PROC_CMDLINE")
	if proc == "" {
		return "/proc/cmdline"
	}
	return proc
}

// ReadCMDLineArg returns the values of every cmdline stanza starting with arg.
// Stanzas without a value yield an empty string.
func ReadCMDLineArg(arg string) []string {
	cmdLine, err := os.ReadFile(GetHostProcCmdline())
	if err != nil {
		return []string{}
	}
	res := []string{}
	for _, f := range strings.Fields(string(cmdLine)) {
		if strings.HasPrefix(f, arg) {
			res = append(res, strings.TrimPrefix(f, arg))
		}
	}
	return res
}
