package auth

import "strings"

// StaticAllowList is the ADMIN_EMAILS set, compared case-insensitively.
type StaticAllowList struct {
	emails map[string]struct{}
}

func NewStaticAllowList(emails []string) *StaticAllowList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &StaticAllowList{emails: set}
}

func (a *StaticAllowList) IsAdmin(email string) bool {
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (a *StaticAllowList) Len() int {
	return len(a.emails)
}
