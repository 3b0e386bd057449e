package messenger

import "strings"

// groupJIDSuffix is the reserved suffix WhatsApp uses for group chat JIDs;
// direct chats end in "@s.whatsapp.net".
const groupJIDSuffix = "@g.us"

// IsGroupJID reports whether jid addresses a group chat.
func IsGroupJID(jid string) bool {
	return strings.HasSuffix(jid, groupJIDSuffix)
}
