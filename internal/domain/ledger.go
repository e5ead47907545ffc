package domain

// Ledger is the organization-wide contributor tally built for a single request.
// Logins are kept in encounter order so that ranking ties resolve to the
// contributor that was seen first.
type Ledger struct {
	records      map[string]*ContributorRecord
	order        []string
	TotalCommits int
	RepoCount    int
	SkippedRepos []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[string]*ContributorRecord)}
}

// Add merges the contributors of one repository into the ledger.
func (l *Ledger) Add(sightings []ContributorSighting) {
	for _, s := range sightings {
		if s.Login == "" {
			continue
		}
		rec, ok := l.records[s.Login]
		if !ok {
			avatar := s.AvatarURL
			if avatar == "" {
				avatar = FallbackAvatarURL(s.Login)
			}
			rec = &ContributorRecord{Login: s.Login, AvatarURL: avatar}
			l.records[s.Login] = rec
			l.order = append(l.order, s.Login)
		}
		n := max(s.Contributions, 0)
		rec.Commits += n
		l.TotalCommits += n
	}
}

// Skip records a repository whose contributors could not be fetched.
func (l *Ledger) Skip(repo string) {
	l.SkippedRepos = append(l.SkippedRepos, repo)
}

// Len returns the number of distinct contributors.
func (l *Ledger) Len() int { return len(l.order) }

// Get returns the record for login, if any.
func (l *Ledger) Get(login string) (ContributorRecord, bool) {
	rec, ok := l.records[login]
	if !ok {
		return ContributorRecord{}, false
	}
	return *rec, true
}

// Records returns copies of all records in encounter order.
func (l *Ledger) Records() []ContributorRecord {
	out := make([]ContributorRecord, 0, len(l.order))
	for _, login := range l.order {
		out = append(out, *l.records[login])
	}
	return out
}
