package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func init() {
	now = func() time.Time { return fixedNow }
	passwordCost = bcrypt.MinCost
}

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// memTable is a tiny id-keyed table that hands out copies.
type memTable[T any] struct {
	mu     sync.Mutex
	rows   map[int64]T
	next   int64
	entity string
	id     func(*T) *int64
}

func newMemTable[T any](entity string, id func(*T) *int64) *memTable[T] {
	return &memTable[T]{rows: map[int64]T{}, entity: entity, id: id}
}

func (m *memTable[T]) get(id int64) *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	return &row
}

func (m *memTable[T]) insert(row *T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	*m.id(row) = m.next
	m.rows[m.next] = *row
}

func (m *memTable[T]) update(row *T) error {
	return m.modify(*m.id(row), func(stored *T) { *stored = *row })
}

func (m *memTable[T]) modify(id int64, fn func(*T)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return types.NotFound(m.entity, id)
	}

	fn(&row)
	m.rows[id] = row
	return nil
}

func (m *memTable[T]) delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return types.NotFound(m.entity, id)
	}

	delete(m.rows, id)
	return nil
}

func (m *memTable[T]) all(match func(*T) bool) []*T {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		row := m.rows[id]
		if match == nil || match(&row) {
			out = append(out, &row)
		}
	}
	return out
}

func pageOf[T any](rows []*T, req types.PageRequest) *types.Page[T] {
	req = req.Normalize()
	start := int(req.Offset())
	if start > len(rows) {
		start = len(rows)
	}
	end := start + req.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return types.NewPage(rows[start:end], int64(len(rows)), req)
}

type fakeCategories struct {
	*memTable[types.Category]
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{newMemTable("category", func(c *types.Category) *int64 { return &c.ID })}
}

func (f *fakeCategories) CategoryByID(ctx context.Context, id int64) (*types.Category, error) {
	return f.get(id), nil
}

func (f *fakeCategories) CategoryBySlug(ctx context.Context, slug string) (*types.Category, error) {
	rows := f.all(func(c *types.Category) bool { return c.Slug == slug })
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (f *fakeCategories) Categories(ctx context.Context, filter types.CategoryFilter, page types.PageRequest) (*types.Page[types.Category], error) {
	rows, _ := f.AllCategories(ctx, filter)
	return pageOf(rows, page), nil
}

func (f *fakeCategories) AllCategories(ctx context.Context, filter types.CategoryFilter) ([]*types.Category, error) {
	return f.all(func(c *types.Category) bool {
		if filter.ParentID != nil && (c.ParentID == nil || *c.ParentID != *filter.ParentID) {
			return false
		}
		return filter.Type == "" || c.Type == filter.Type
	}), nil
}

func (f *fakeCategories) SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return len(f.all(func(c *types.Category) bool { return c.Slug == slug && c.ID != excludeID })) > 0, nil
}

func (f *fakeCategories) ChildrenCount(ctx context.Context, id int64) (int64, error) {
	return int64(len(f.all(func(c *types.Category) bool { return c.ParentID != nil && *c.ParentID == id }))), nil
}

func (f *fakeCategories) CreateCategory(ctx context.Context, category *types.Category) error {
	category.CreatedAt, category.UpdatedAt = fixedNow, fixedNow
	f.insert(category)
	return nil
}

func (f *fakeCategories) UpdateCategory(ctx context.Context, category *types.Category) error {
	return f.update(category)
}

func (f *fakeCategories) DeleteCategory(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakePosts struct {
	*memTable[types.Post]
}

func newFakePosts() *fakePosts {
	return &fakePosts{newMemTable("post", func(p *types.Post) *int64 { return &p.ID })}
}

func (f *fakePosts) Post(ctx context.Context, id int64) (*types.Post, error) {
	return f.get(id), nil
}

func (f *fakePosts) Posts(ctx context.Context, filter types.PostFilter, page types.PageRequest) (*types.Page[types.Post], error) {
	rows := f.all(func(p *types.Post) bool {
		return filter.CategoryID == nil || p.CategoryID == *filter.CategoryID
	})
	return pageOf(rows, page), nil
}

func (f *fakePosts) CreatePost(ctx context.Context, post *types.Post) error {
	f.insert(post)
	return nil
}

func (f *fakePosts) UpdatePost(ctx context.Context, post *types.Post) error {
	return f.update(post)
}

func (f *fakePosts) DeletePost(ctx context.Context, id int64) error {
	return f.delete(id)
}

func (f *fakePosts) IncrementViewCount(ctx context.Context, id int64) error {
	return f.modify(id, func(p *types.Post) { p.ViewCount++ })
}

type fakeUsers struct {
	*memTable[types.User]
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{newMemTable("user", func(u *types.User) *int64 { return &u.ID })}
}

func (f *fakeUsers) User(ctx context.Context, id int64) (*types.User, error) {
	return f.get(id), nil
}

func (f *fakeUsers) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	rows := f.all(func(u *types.User) bool { return u.Email == strings.ToLower(email) })
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (f *fakeUsers) UsersByIDs(ctx context.Context, ids []int64) ([]*types.User, error) {
	return f.all(func(u *types.User) bool {
		for _, id := range ids {
			if u.ID == id {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeUsers) Users(ctx context.Context, filter types.UserFilter, page types.PageRequest) (*types.Page[types.User], error) {
	return pageOf(f.all(nil), page), nil
}

func (f *fakeUsers) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return len(f.all(func(u *types.User) bool { return u.Email == email && u.ID != excludeID })) > 0, nil
}

func (f *fakeUsers) CreateUser(ctx context.Context, user *types.User) error {
	f.insert(user)
	return nil
}

func (f *fakeUsers) UpdateUser(ctx context.Context, user *types.User) error {
	return f.modify(user.ID, func(stored *types.User) {
		hash := stored.PasswordHash
		*stored = *user
		stored.PasswordHash = hash
	})
}

func (f *fakeUsers) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return f.modify(id, func(u *types.User) { u.PasswordHash = hash })
}

func (f *fakeUsers) DeleteUser(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeProfiles struct {
	mu   sync.Mutex
	rows map[int64]types.UserProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{rows: map[int64]types.UserProfile{}}
}

func (f *fakeProfiles) Profile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.rows[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfiles) CreateProfile(ctx context.Context, profile *types.UserProfile) error {
	return f.SaveProfile(ctx, profile)
}

func (f *fakeProfiles) SaveProfile(ctx context.Context, profile *types.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rows[profile.UserID] = *profile
	return nil
}

type fakeConsultations struct {
	*memTable[types.Consultation]
	locks   int
	updates int
}

func newFakeConsultations() *fakeConsultations {
	return &fakeConsultations{memTable: newMemTable("consultation", func(c *types.Consultation) *int64 { return &c.ID })}
}

func (f *fakeConsultations) Consultation(ctx context.Context, id int64) (*types.Consultation, error) {
	return f.get(id), nil
}

func (f *fakeConsultations) ConsultationForUpdate(ctx context.Context, id int64) (*types.Consultation, error) {
	f.locks++
	return f.get(id), nil
}

func (f *fakeConsultations) TransitionConsultation(ctx context.Context, id int64, to types.ConsultationStatus, from ...types.ConsultationStatus) (bool, error) {
	changed := false
	// A missing row is reported as unchanged.
	_ = f.modify(id, func(c *types.Consultation) {
		for _, status := range from {
			if c.Status == status {
				c.Status = to
				changed = true
				return
			}
		}
	})
	return changed, nil
}

func (f *fakeConsultations) Consultations(ctx context.Context, filter types.ConsultationFilter, page types.PageRequest) (*types.Page[types.Consultation], error) {
	return pageOf(f.all(nil), page), nil
}

func (f *fakeConsultations) CreateConsultation(ctx context.Context, c *types.Consultation) error {
	f.insert(c)
	return nil
}

func (f *fakeConsultations) UpdateConsultation(ctx context.Context, c *types.Consultation) error {
	f.updates++
	return f.update(c)
}

func (f *fakeConsultations) DeleteConsultation(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeResponses struct {
	*memTable[types.ConsultationResponse]
	beforeCreate func(ctx context.Context)
}

func newFakeResponses() *fakeResponses {
	return &fakeResponses{memTable: newMemTable("consultation response", func(r *types.ConsultationResponse) *int64 { return &r.ID })}
}

func (f *fakeResponses) Response(ctx context.Context, id int64) (*types.ConsultationResponse, error) {
	return f.get(id), nil
}

func (f *fakeResponses) ResponsesByConsultation(ctx context.Context, consultationID int64, publicOnly bool) ([]*types.ConsultationResponse, error) {
	return f.all(func(r *types.ConsultationResponse) bool {
		return r.ConsultationID == consultationID && (!publicOnly || r.IsPublic)
	}), nil
}

func (f *fakeResponses) CreateResponse(ctx context.Context, r *types.ConsultationResponse) error {
	if f.beforeCreate != nil {
		f.beforeCreate(ctx)
	}
	f.insert(r)
	return nil
}

func (f *fakeResponses) DeleteResponse(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeFollowups struct {
	*memTable[types.ConsultationFollowup]
}

func newFakeFollowups() *fakeFollowups {
	return &fakeFollowups{newMemTable("consultation followup", func(f *types.ConsultationFollowup) *int64 { return &f.ID })}
}

func (f *fakeFollowups) Followup(ctx context.Context, id int64) (*types.ConsultationFollowup, error) {
	return f.get(id), nil
}

func (f *fakeFollowups) FollowupsByConsultation(ctx context.Context, consultationID int64) ([]*types.ConsultationFollowup, error) {
	return f.all(func(fu *types.ConsultationFollowup) bool { return fu.OriginalConsultationID == consultationID }), nil
}

func (f *fakeFollowups) NextFollowupOrder(ctx context.Context, consultationID int64) (int, error) {
	next := 1
	for _, fu := range f.all(func(fu *types.ConsultationFollowup) bool { return fu.OriginalConsultationID == consultationID }) {
		if fu.FollowupOrder >= next {
			next = fu.FollowupOrder + 1
		}
	}
	return next, nil
}

func (f *fakeFollowups) CreateFollowup(ctx context.Context, fu *types.ConsultationFollowup) error {
	f.insert(fu)
	return nil
}

func (f *fakeFollowups) UpdateFollowup(ctx context.Context, fu *types.ConsultationFollowup) error {
	return f.update(fu)
}

func (f *fakeFollowups) DeleteFollowup(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeSponsors struct {
	*memTable[types.Sponsor]
}

func newFakeSponsors() *fakeSponsors {
	return &fakeSponsors{newMemTable("sponsor", func(s *types.Sponsor) *int64 { return &s.ID })}
}

func (f *fakeSponsors) Sponsor(ctx context.Context, id int64) (*types.Sponsor, error) {
	return f.get(id), nil
}

func (f *fakeSponsors) SponsorsByIDs(ctx context.Context, ids []int64) ([]*types.Sponsor, error) {
	return f.all(func(s *types.Sponsor) bool {
		for _, id := range ids {
			if s.ID == id {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeSponsors) Sponsors(ctx context.Context, filter types.SponsorFilter, page types.PageRequest) (*types.Page[types.Sponsor], error) {
	return pageOf(f.all(nil), page), nil
}

func (f *fakeSponsors) CreateSponsor(ctx context.Context, s *types.Sponsor) error {
	f.insert(s)
	return nil
}

func (f *fakeSponsors) UpdateSponsor(ctx context.Context, s *types.Sponsor) error {
	return f.update(s)
}

func (f *fakeSponsors) DeleteSponsor(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeDonations struct {
	*memTable[types.Donation]
	createErr error
}

func newFakeDonations() *fakeDonations {
	return &fakeDonations{memTable: newMemTable("donation", func(d *types.Donation) *int64 { return &d.ID })}
}

func (f *fakeDonations) Donation(ctx context.Context, id int64) (*types.Donation, error) {
	return f.get(id), nil
}

func (f *fakeDonations) Donations(ctx context.Context, filter types.DonationFilter, page types.PageRequest) (*types.Page[types.Donation], error) {
	return pageOf(f.all(nil), page), nil
}

func (f *fakeDonations) DonationsBySponsor(ctx context.Context, sponsorID int64) ([]*types.Donation, error) {
	return f.all(func(d *types.Donation) bool { return d.SponsorID == sponsorID }), nil
}

func (f *fakeDonations) CreateDonation(ctx context.Context, d *types.Donation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.insert(d)
	return nil
}

func (f *fakeDonations) UpdateDonation(ctx context.Context, d *types.Donation) error {
	return f.update(d)
}

func (f *fakeDonations) DeleteDonation(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeSubscribers struct {
	*memTable[types.NewsletterSubscriber]
}

func newFakeSubscribers() *fakeSubscribers {
	return &fakeSubscribers{newMemTable("newsletter subscriber", func(s *types.NewsletterSubscriber) *int64 { return &s.ID })}
}

func (f *fakeSubscribers) SubscriberByEmail(ctx context.Context, email string) (*types.NewsletterSubscriber, error) {
	rows := f.all(func(s *types.NewsletterSubscriber) bool { return s.Email == email })
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (f *fakeSubscribers) SubscriberByToken(ctx context.Context, token string) (*types.NewsletterSubscriber, error) {
	rows := f.all(func(s *types.NewsletterSubscriber) bool { return s.UnsubscribeToken == token })
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (f *fakeSubscribers) Subscribers(ctx context.Context, filter types.SubscriberFilter, page types.PageRequest) (*types.Page[types.NewsletterSubscriber], error) {
	return pageOf(f.all(nil), page), nil
}

func (f *fakeSubscribers) CreateSubscriber(ctx context.Context, s *types.NewsletterSubscriber) error {
	f.insert(s)
	return nil
}

func (f *fakeSubscribers) UpdateSubscriber(ctx context.Context, s *types.NewsletterSubscriber) error {
	return f.update(s)
}

func (f *fakeSubscribers) DeleteSubscriber(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeResourceCategories struct {
	*memTable[types.ResourceCategory]
}

func newFakeResourceCategories() *fakeResourceCategories {
	return &fakeResourceCategories{newMemTable("resource category", func(c *types.ResourceCategory) *int64 { return &c.ID })}
}

func (f *fakeResourceCategories) ResourceCategory(ctx context.Context, id int64) (*types.ResourceCategory, error) {
	return f.get(id), nil
}

func (f *fakeResourceCategories) ResourceCategories(ctx context.Context, activeOnly bool) ([]*types.ResourceCategory, error) {
	return f.all(func(c *types.ResourceCategory) bool { return !activeOnly || c.IsActive }), nil
}

func (f *fakeResourceCategories) SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return len(f.all(func(c *types.ResourceCategory) bool { return c.Slug == slug && c.ID != excludeID })) > 0, nil
}

func (f *fakeResourceCategories) CreateResourceCategory(ctx context.Context, c *types.ResourceCategory) error {
	f.insert(c)
	return nil
}

func (f *fakeResourceCategories) UpdateResourceCategory(ctx context.Context, c *types.ResourceCategory) error {
	return f.update(c)
}

func (f *fakeResourceCategories) DeleteResourceCategory(ctx context.Context, id int64) error {
	return f.delete(id)
}

type fakeResources struct {
	*memTable[types.Resource]
}

func newFakeResources() *fakeResources {
	return &fakeResources{newMemTable("resource", func(r *types.Resource) *int64 { return &r.ID })}
}

func (f *fakeResources) Resource(ctx context.Context, id int64) (*types.Resource, error) {
	return f.get(id), nil
}

func (f *fakeResources) Resources(ctx context.Context, filter types.ResourceFilter, page types.PageRequest) (*types.Page[types.Resource], error) {
	return pageOf(f.all(nil), page), nil
}

func (f *fakeResources) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return int64(len(f.all(func(r *types.Resource) bool { return r.CategoryID == categoryID }))), nil
}

func (f *fakeResources) CreateResource(ctx context.Context, r *types.Resource) error {
	f.insert(r)
	return nil
}

func (f *fakeResources) UpdateResource(ctx context.Context, r *types.Resource) error {
	return f.update(r)
}

func (f *fakeResources) DeleteResource(ctx context.Context, id int64) error {
	return f.delete(id)
}

func (f *fakeResources) IncrementViewCount(ctx context.Context, id int64) error {
	return f.modify(id, func(r *types.Resource) { r.ViewCount++ })
}

func (f *fakeResources) IncrementDownloadCount(ctx context.Context, id int64) error {
	return f.modify(id, func(r *types.Resource) { r.DownloadCount++ })
}

type fakeFiles struct {
	*memTable[types.ResourceFile]
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{newMemTable("resource file", func(f *types.ResourceFile) *int64 { return &f.ID })}
}

func (f *fakeFiles) ResourceFile(ctx context.Context, id int64) (*types.ResourceFile, error) {
	return f.get(id), nil
}

func (f *fakeFiles) FilesByResource(ctx context.Context, resourceID int64) ([]*types.ResourceFile, error) {
	return f.all(func(file *types.ResourceFile) bool { return file.ResourceID == resourceID }), nil
}

func (f *fakeFiles) CreateResourceFile(ctx context.Context, file *types.ResourceFile) error {
	f.insert(file)
	return nil
}

func (f *fakeFiles) DeleteResourceFile(ctx context.Context, id int64) error {
	return f.delete(id)
}

func (f *fakeFiles) DeleteFilesByResource(ctx context.Context, resourceID int64) error {
	for _, file := range f.all(func(file *types.ResourceFile) bool { return file.ResourceID == resourceID }) {
		if err := f.delete(file.ID); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFiles) IncrementDownloadCount(ctx context.Context, id int64) error {
	return f.modify(id, func(file *types.ResourceFile) { file.DownloadCount++ })
}

type fakePresigner struct {
	keys []string
}

func (f *fakePresigner) PresignDownload(ctx context.Context, key, fileName string) (string, time.Time, error) {
	f.keys = append(f.keys, key)
	return "https://files.example.org/" + key + "?sig=x", fixedNow.Add(5 * time.Minute), nil
}
