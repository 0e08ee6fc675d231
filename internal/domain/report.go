package domain

import (
	"fmt"
	"strings"
)

// Report is the completion summary printed for the operator after a
// successful run.
type Report struct {
	PublicUsername string
	GroupTitle     string
	ChannelTitle   string
	InviteLink     InviteLink
}

func (r Report) Render() string {
	var b strings.Builder
	b.WriteString("\n=== SETUP COMPLETED SUCCESSFULLY ===\n")
	fmt.Fprintf(&b, "Public Channel: @%s\n", r.PublicUsername)
	fmt.Fprintf(&b, "Private Group Link: %s\n", r.InviteLink)
	b.WriteString("\nNext Steps:\n")
	b.WriteString("1. Visit your public channel to verify the setup\n")
	b.WriteString("2. Configure Safeguard settings using the inline buttons\n")
	b.WriteString("3. Test the verification system\n")
	b.WriteString("\nCheck the log file for detailed setup information\n")
	return b.String()
}
