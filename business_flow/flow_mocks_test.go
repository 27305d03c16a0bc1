package businessflow

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/leadkit/leadkit/models"
)

// stubLeadRepo is an in-memory LeadRepository keyed on post ID.
type stubLeadRepo struct {
	leads    map[string]*models.Lead
	saved    []string
	failByID map[string]error
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{
		leads:    make(map[string]*models.Lead),
		failByID: make(map[string]error),
	}
}

func (r *stubLeadRepo) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	return r.ListRecent(ctx, limit, offset)
}

func (r *stubLeadRepo) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	return int64(len(r.leads)), nil
}

func (r *stubLeadRepo) ByPostID(ctx context.Context, postID string) (*models.Lead, error) {
	return r.leads[postID], nil
}

func (r *stubLeadRepo) SaveIgnoreDuplicate(ctx context.Context, lead *models.Lead) (bool, error) {
	if err, ok := r.failByID[lead.ID]; ok {
		return false, err
	}
	if _, exists := r.leads[lead.ID]; exists {
		return false, nil
	}
	r.leads[lead.ID] = lead
	r.saved = append(r.saved, lead.ID)
	return true, nil
}

func (r *stubLeadRepo) ListRecent(ctx context.Context, limit, offset int) ([]*models.Lead, error) {
	out := make([]*models.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CapturedAt.After(out[j].CapturedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// stubCustomerRepo is an in-memory CustomerRepository keyed on email. Upserts
// against failEmail return failErr, which lets a test abort an import at a
// chosen row.
type stubCustomerRepo struct {
	byEmail   map[string]*models.Customer
	upserts   []string
	failEmail string
	failErr   error
	nextID    uint
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byEmail: make(map[string]*models.Customer)}
}

func (r *stubCustomerRepo) ByID(ctx context.Context, id uint) (*models.Customer, error) {
	for _, c := range r.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubCustomerRepo) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	out := make([]*models.Customer, 0, len(r.byEmail))
	for _, c := range r.byEmail {
		if filter.State != nil && !strings.EqualFold(c.State, *filter.State) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubCustomerRepo) Save(ctx context.Context, customer *models.Customer) error {
	return r.UpsertByEmail(ctx, customer)
}

func (r *stubCustomerRepo) SaveBatch(ctx context.Context, customers []*models.Customer) error {
	for _, c := range customers {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubCustomerRepo) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	matched, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *stubCustomerRepo) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return r.byEmail[strings.ToLower(email)], nil
}

func (r *stubCustomerRepo) UpsertByEmail(ctx context.Context, customer *models.Customer) error {
	email := strings.ToLower(customer.Email)
	if email == r.failEmail {
		if r.failErr != nil {
			return r.failErr
		}
		return errors.New("forced upsert failure")
	}
	if existing, ok := r.byEmail[email]; ok {
		customer.ID = existing.ID
		customer.UUID = existing.UUID
		customer.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		customer.ID = r.nextID
	}
	r.byEmail[email] = customer
	r.upserts = append(r.upserts, email)
	return nil
}

func (r *stubCustomerRepo) ListByState(ctx context.Context, state string) ([]*models.Customer, error) {
	return r.ByFilter(ctx, models.CustomerFilter{State: &state}, "", 0, 0)
}

// stubCampaignRepo is an in-memory EmailCampaignRepository.
type stubCampaignRepo struct {
	campaigns []*models.EmailCampaign
	saveErr   error
}

func (r *stubCampaignRepo) ByID(ctx context.Context, id uint) (*models.EmailCampaign, error) {
	for _, c := range r.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubCampaignRepo) ByFilter(ctx context.Context, filter models.EmailCampaignFilter, orderBy string, limit, offset int) ([]*models.EmailCampaign, error) {
	return r.ListRecent(ctx, limit, offset)
}

func (r *stubCampaignRepo) Save(ctx context.Context, campaign *models.EmailCampaign) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	campaign.ID = uint(len(r.campaigns) + 1)
	r.campaigns = append(r.campaigns, campaign)
	return nil
}

func (r *stubCampaignRepo) SaveBatch(ctx context.Context, campaigns []*models.EmailCampaign) error {
	for _, c := range campaigns {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubCampaignRepo) Count(ctx context.Context, filter models.EmailCampaignFilter) (int64, error) {
	return int64(len(r.campaigns)), nil
}

func (r *stubCampaignRepo) ListRecent(ctx context.Context, limit, offset int) ([]*models.EmailCampaign, error) {
	out := make([]*models.EmailCampaign, len(r.campaigns))
	copy(out, r.campaigns)
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
