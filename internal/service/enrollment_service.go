package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrSponsorNotFound = errors.New("sponsor_not_found")
var ErrMaxDepthExceeded = errors.New("max_depth_exceeded")
var ErrAlreadyRegistered = errors.New("already_registered")

const rewardCodeSequence = "reward_code"

type EnrollmentService interface {
	// Register creates the member row for an authenticated account. With a
	// referral code the member is enrolled under the code's owner; sponsor
	// validation happens before any write so a rejected registration leaves
	// nothing behind.
	Register(ctx context.Context, uid, displayName, referralCode string) (*model.Member, error)
	// Enroll attaches an existing member below a sponsor: level becomes
	// sponsor level + 1 and the closure edge set is inserted atomically.
	Enroll(ctx context.Context, newUID, sponsorUID string) error
	Get(ctx context.Context, uid string) (*model.Member, error)
}

type enrollmentService struct {
	members   repository.MemberRepository
	closure   repository.ClosureEdgeRepository
	sequences repository.CodeSequenceRepository
}

func NewEnrollmentService(members repository.MemberRepository, closure repository.ClosureEdgeRepository, sequences repository.CodeSequenceRepository) EnrollmentService {
	return &enrollmentService{members: members, closure: closure, sequences: sequences}
}

func (s *enrollmentService) Register(ctx context.Context, uid, displayName, referralCode string) (*model.Member, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	if existing, err := s.members.FindByUID(ctx, uid); err == nil && existing != nil {
		return existing, ErrAlreadyRegistered
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var sponsor *model.Member
	if code := strings.TrimSpace(referralCode); code != "" {
		found, err := s.members.FindByRewardCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSponsorNotFound
			}
			return nil, err
		}
		if found.Level >= model.MaxLevel {
			return nil, ErrMaxDepthExceeded
		}
		sponsor = found
	}

	rewardCode, err := s.nextRewardCode(ctx)
	if err != nil {
		return nil, err
	}
	m := &model.Member{
		UID:         uid,
		DisplayName: strings.TrimSpace(displayName),
		RewardCode:  rewardCode,
		Level:       1,
	}
	if sponsor == nil {
		if err := s.members.Create(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	// Member row and closure edges commit together: a failure here leaves
	// no member behind, so the registration can be retried with the same
	// referral code.
	m.SponsorUID = &sponsor.UID
	m.Level = sponsor.Level + 1
	m.JoinedViaReferral = true
	edges, err := s.buildEdges(ctx, sponsor.UID, uid)
	if err != nil {
		return nil, err
	}
	if err := s.closure.CreateWithEdges(ctx, m, edges); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *enrollmentService) Enroll(ctx context.Context, newUID, sponsorUID string) error {
	sponsor, err := s.members.FindByUID(ctx, sponsorUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSponsorNotFound
		}
		return err
	}
	if sponsor.Level >= model.MaxLevel {
		return ErrMaxDepthExceeded
	}
	m, err := s.members.FindByUID(ctx, newUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	edges, err := s.buildEdges(ctx, sponsor.UID, newUID)
	if err != nil {
		return err
	}

	m.SponsorUID = &sponsor.UID
	m.Level = sponsor.Level + 1
	m.JoinedViaReferral = true
	return s.closure.Attach(ctx, m, edges)
}

// buildEdges assembles the closure rows for a member joining under a
// sponsor. Direct edge first: relative to the sponsor, the new member
// anchors its own leg. Inherited edges carry the leg root of the sponsor's
// edge under the same ancestor, so every edge names the ancestor's direct
// child on the path down. At most 7 inherited rows, O(depth) total.
func (s *enrollmentService) buildEdges(ctx context.Context, sponsorUID, newUID string) ([]model.ClosureEdge, error) {
	edges := []model.ClosureEdge{{
		AncestorUID:   sponsorUID,
		DescendantUID: newUID,
		Distance:      1,
		LegRootUID:    newUID,
	}}
	ancestors, err := s.closure.ListAncestors(ctx, sponsorUID)
	if err != nil {
		return nil, err
	}
	for _, e := range ancestors {
		if e.Distance >= model.MaxEdgeDistance {
			continue
		}
		edges = append(edges, model.ClosureEdge{
			AncestorUID:   e.AncestorUID,
			DescendantUID: newUID,
			Distance:      e.Distance + 1,
			LegRootUID:    e.LegRootUID,
		})
	}
	return edges, nil
}

func (s *enrollmentService) Get(ctx context.Context, uid string) (*model.Member, error) {
	m, err := s.members.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *enrollmentService) nextRewardCode(ctx context.Context) (string, error) {
	n, err := s.sequences.Next(ctx, rewardCodeSequence)
	if err != nil {
		return "", err
	}
	code := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(code) < 6 {
		code = strings.Repeat("0", 6-len(code)) + code
	}
	return "RW" + code, nil
}
