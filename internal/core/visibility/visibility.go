// Package visibility decides which reviews and comments a viewer may see
package visibility

// Role is a bitset of conference roles
type Role uint8

const (
	RolePC Role = 1 << iota
	RoleAdmin
	RoleChair
)

// ConflictAuthor marks the viewer as an author of the paper; lower positive
// values are declared conflicts
const ConflictAuthor = 9

// Review types, weakest to strongest
const (
	ReviewNone      = 0
	ReviewExternal  = 1
	ReviewPC        = 2
	ReviewSecondary = 3
	ReviewPrimary   = 4
)

// Viewer is the contact a feed is built for
type Viewer struct {
	ContactID int64
	Roles     Role
}

func (v Viewer) Has(r Role) bool { return v.Roles&r != 0 }

// IsPC reports PC membership; chairs are PC members
func (v Viewer) IsPC() bool { return v.Has(RolePC | RoleChair) }

// IsPrivChair reports whether the viewer administers the whole conference
func (v Viewer) IsPrivChair() bool { return v.Has(RoleAdmin | RoleChair) }

// Access is the viewer's relation to one paper
type Access struct {
	ConflictType        int
	MyReviewType        int
	MyReviewSubmitted   bool
	MyReviewNeedsSubmit bool
	ManagerContactID    int64
	TimeWithdrawn       int64
}

// AuthorView reports whether the viewer is an author of the paper
func AuthorView(a Access) bool { return a.ConflictType >= ConflictAuthor }

// Conflicted reports any declared conflict, authorship included
func Conflicted(a Access) bool { return a.ConflictType > 0 }

// Policy holds the conference knobs that shape visibility
type Policy struct {
	AuthorsSeeReviews  int  // au_seerev
	PCSeeAllReviews    int  // pc_seeallrev
	ExternalSeeReviews int  // extrev_view
	CommentsAlways     int  // cmt_always
	ReviewsBlind       bool // rev_blind
}

// Settings is the read side of a settings snapshot
type Settings interface {
	Value(name string, def int64) int64
}

// PolicyFrom reads the visibility knobs out of conference settings
func PolicyFrom(s Settings) Policy {
	return Policy{
		AuthorsSeeReviews:  int(s.Value("au_seerev", 0)),
		PCSeeAllReviews:    int(s.Value("pc_seeallrev", 0)),
		ExternalSeeReviews: int(s.Value("extrev_view", 0)),
		CommentsAlways:     int(s.Value("cmt_always", 0)),
		ReviewsBlind:       s.Value("rev_blind", 0) > 0,
	}
}

// ReviewFacts describes one review row
type ReviewFacts struct {
	ContactID  int64
	ReviewType int
	Submitted  bool
	Access     Access
}

// CommentVisibility is the audience a comment was posted for
type CommentVisibility uint8

const (
	CommentAdmin CommentVisibility = iota
	CommentPC
	CommentReviewer
	CommentAuthor
)

// CommentFacts describes one comment row
type CommentFacts struct {
	ContactID  int64
	Visibility CommentVisibility
	Draft      bool
	Response   bool
	Access     Access
}

func manages(v Viewer, a Access) bool {
	return v.IsPrivChair() || (a.ManagerContactID != 0 && a.ManagerContactID == v.ContactID)
}

// canSeePaperReviews is whether the viewer may read others' submitted reviews
func canSeePaperReviews(v Viewer, p Policy, a Access) bool {
	if manages(v, a) {
		return true
	}
	if AuthorView(a) {
		return p.AuthorsSeeReviews > 0 && a.TimeWithdrawn <= 0
	}
	if Conflicted(a) {
		return false
	}
	if v.IsPC() {
		return p.PCSeeAllReviews > 0 || a.MyReviewSubmitted
	}
	if a.MyReviewType > ReviewNone {
		return p.ExternalSeeReviews > 0 && a.MyReviewSubmitted
	}
	return false
}

// CanViewReview reports whether v may see the review
func CanViewReview(v Viewer, p Policy, r ReviewFacts) bool {
	if r.ContactID == v.ContactID {
		return true
	}
	if !r.Submitted {
		return manages(v, r.Access)
	}
	return canSeePaperReviews(v, p, r.Access)
}

// CanViewComment reports whether v may see the comment
func CanViewComment(v Viewer, p Policy, c CommentFacts) bool {
	if c.ContactID == v.ContactID {
		return true
	}
	if c.Draft {
		return false
	}
	a := c.Access
	if manages(v, a) {
		return true
	}
	if c.Response {
		return AuthorView(a) || canSeePaperReviews(v, p, a)
	}
	if AuthorView(a) {
		return c.Visibility == CommentAuthor && p.AuthorsSeeReviews > 0 && a.TimeWithdrawn <= 0
	}
	if Conflicted(a) {
		return false
	}
	switch c.Visibility {
	case CommentAdmin:
		return false
	case CommentPC:
		return v.IsPC()
	default:
		if v.IsPC() {
			return true
		}
		if a.MyReviewType == ReviewNone {
			return false
		}
		return p.CommentsAlways > 0 || canSeePaperReviews(v, p, a)
	}
}

// CanViewReviewerIdentity reports whether v may see who wrote a visible review
func CanViewReviewerIdentity(v Viewer, p Policy, r ReviewFacts) bool {
	if r.ContactID == v.ContactID || manages(v, r.Access) {
		return true
	}
	if AuthorView(r.Access) {
		return !p.ReviewsBlind
	}
	return true
}
