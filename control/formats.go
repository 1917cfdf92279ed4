package control

import (
	"fmt"
	"sort"
	"strings"
)

// splitExtended implements the "@" extension-marker convention of §4.6:
// a per-kind format body may contain exactly one '@'; everything before
// it is common to both extended and non-extended subscribers, everything
// after is included only for extended subscribers with the '@' replaced
// by a space. A body with no '@' is identical for both variants. A body
// with '@' at byte 0 yields an empty common part for non-extended
// subscribers.
func splitExtended(body string) (plain string, extended string) {
	i := strings.IndexByte(body, '@')
	if i < 0 {
		return body, body
	}
	common := body[:i]
	tail := body[i+1:]
	return common, common + " " + tail
}

// eventVariant is the {ShortPlain, ShortExt, LongPlain, LongExt} axis
// computed once per emission (§9 design note), replacing four booleans.
type eventVariant int

const (
	variantShortPlain eventVariant = iota
	variantShortExt
	variantLongPlain
	variantLongExt
)

func variantOf(longNames, extended bool) eventVariant {
	switch {
	case !longNames && !extended:
		return variantShortPlain
	case !longNames && extended:
		return variantShortExt
	case longNames && !extended:
		return variantLongPlain
	default:
		return variantLongExt
	}
}

// fmtCirc renders a CIRC event body (without the leading "650 ").
func fmtCirc(id int, status string, path string, reason, remoteReason string) string {
	s := fmt.Sprintf("CIRC %d %s", id, status)
	if path != "" {
		s += " " + path
	}
	s += "@REASON=" + reason
	if remoteReason != "" {
		s += " REMOTE_REASON=" + remoteReason
	}
	return s
}

func fmtStream(id int, status string, circID int, addrPort string, reasonBlock string, sourceAddrBlock string) string {
	s := fmt.Sprintf("STREAM %d %s %d %s@%s", id, status, circID, addrPort, reasonBlock)
	if sourceAddrBlock != "" {
		s += sourceAddrBlock
	}
	return s
}

func fmtOrConn(name, status, reason string, ncircs int, hasNCircs bool) string {
	s := fmt.Sprintf("ORCONN %s %s@REASON=%s", name, status, reason)
	if hasNCircs {
		s += fmt.Sprintf(" NCIRCS=%d", ncircs)
	}
	return s
}

func fmtBW(read, written int64) string {
	return fmt.Sprintf("BW %d %d", read, written)
}

func fmtStreamBW(id int, read, written int64) string {
	return fmt.Sprintf("STREAM_BW %d %d %d", id, read, written)
}

func fmtNewDesc(ids []string) string {
	return "NEWDESC " + strings.Join(ids, " ")
}

func fmtAddrMap(from, to, expiry string, errMsg string) string {
	s := fmt.Sprintf("ADDRMAP %s %s %s@", from, to, expiry)
	if errMsg != "" {
		s += errMsg + " "
	}
	s += fmt.Sprintf(`EXPIRES="%s"`, expiry)
	return s
}

func fmtDescChanged() string { return "DESCCHANGED" }

func fmtGuard(short bool, hexOrNick, status string) string {
	if short {
		return fmt.Sprintf("GUARD ENTRY $%s %s", hexOrNick, status)
	}
	return fmt.Sprintf("GUARD ENTRY %s %s", hexOrNick, status)
}

func fmtStatus(kind, severity, keyword string, kv map[string]string) string {
	s := fmt.Sprintf("STATUS_%s %s %s", kind, severity, keyword)
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s += fmt.Sprintf(" %s=%s", k, kv[k])
	}
	return s
}

func fmtLog(severity, message string) string {
	message = strings.ReplaceAll(message, "\r", " ")
	message = strings.ReplaceAll(message, "\n", " ")
	return severity + " " + message
}
