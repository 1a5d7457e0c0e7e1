package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/tally-app/tally/internal/middleware"
	"github.com/tally-app/tally/internal/models"
	"github.com/tally-app/tally/internal/storage"
)

// GroupService manages groups and their members.
type GroupService struct {
	store storage.Store
}

func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// identityFromNewMember validates the exactly-one-of rule and builds the
// corresponding identity variant, resolving registered members against
// the users table.
func (s *GroupService) identityFromNewMember(ctx context.Context, nm NewMember) (models.Identity, error) {
	switch {
	case nm.UserID != "" && nm.Name != "":
		return nil, errInvalid("member must have either user_id or name, not both")
	case nm.UserID != "":
		if _, err := s.store.GetUserByID(ctx, nm.UserID); err != nil {
			return nil, rpcError(err)
		}
		return models.Registered{UserID: nm.UserID}, nil
	case nm.Name != "":
		return models.Placeholder{Name: nm.Name}, nil
	default:
		return nil, errInvalid("member must have either user_id or name")
	}
}

// CreateGroup creates a group with the caller as its first registered
// member plus any members listed in the request.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("no authenticated user"))
	}

	msg := req.Msg
	if msg.Name == "" {
		return nil, errInvalid("group name is required")
	}
	if msg.Currency == "" {
		return nil, errInvalid("currency is required")
	}

	group := &models.Group{
		Name:      msg.Name,
		Currency:  msg.Currency,
		CreatedBy: userID,
	}

	members := []*models.Member{{Identity: models.Registered{UserID: userID}}}
	for _, nm := range msg.Members {
		if nm.UserID == userID {
			continue // creator is already in
		}
		identity, err := s.identityFromNewMember(ctx, nm)
		if err != nil {
			return nil, err
		}
		members = append(members, &models.Member{Identity: identity})
	}

	if err := s.store.CreateGroup(ctx, group, members); err != nil {
		return nil, rpcError(err)
	}

	created := make([]models.Member, len(members))
	for i, m := range members {
		created[i] = *m
	}
	return connect.NewResponse(&CreateGroupResponse{
		Group: toWireGroup(group, created),
	}), nil
}

// GetGroup returns a group with its members. Callers must be members.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	group, members, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetGroupResponse{
		Group: toWireGroup(group, members),
	}), nil
}

// ListGroups returns every group the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("no authenticated user"))
	}

	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, rpcError(err)
	}

	res := &ListGroupsResponse{Groups: make([]Group, 0, len(groups))}
	for _, group := range groups {
		members, err := s.store.ListMembers(ctx, group.ID)
		if err != nil {
			return nil, rpcError(err)
		}
		res.Groups = append(res.Groups, toWireGroup(group, members))
	}
	return connect.NewResponse(res), nil
}

// AddMember adds a registered or placeholder member to a group the
// caller belongs to.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	_, members, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	identity, err := s.identityFromNewMember(ctx, req.Msg.Member)
	if err != nil {
		return nil, err
	}
	if reg, ok := identity.(models.Registered); ok {
		for _, m := range members {
			if id, ok := m.UserID(); ok && id == reg.UserID {
				return nil, connect.NewError(connect.CodeAlreadyExists,
					errors.New("user is already a member of this group"))
			}
		}
	}

	member := &models.Member{GroupID: req.Msg.GroupID, Identity: identity}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, rpcError(err)
	}

	return connect.NewResponse(&AddMemberResponse{
		Member: toWireMember(*member),
	}), nil
}
