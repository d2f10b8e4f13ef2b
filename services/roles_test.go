package services

import (
	"testing"

	"tripmate-server/models"
)

func TestAccessForCreatorIsAlwaysAdmin(t *testing.T) {
	trip := &models.Trip{ID: 1, CreatedBy: 7}

	// No membership row at all.
	access := AccessFor(trip, nil, 7)
	if access.Role != RoleAdmin || !access.IsCreator {
		t.Fatalf("creator should be admin, got %+v", access)
	}

	// Even a demoted membership row cannot override the creator rule.
	member := &models.TripMember{TripID: 1, UserID: 7, Role: RoleTraveller, Status: MemberActive}
	access = AccessFor(trip, member, 7)
	if access.Role != RoleAdmin {
		t.Fatalf("creator should stay admin, got %+v", access)
	}
}

func TestAccessForMemberRoles(t *testing.T) {
	trip := &models.Trip{ID: 1, CreatedBy: 7}

	for _, role := range []string{RoleAdmin, RoleManager, RoleTraveller} {
		member := &models.TripMember{TripID: 1, UserID: 2, Role: role, Status: MemberActive}
		access := AccessFor(trip, member, 2)
		if access.Role != role {
			t.Fatalf("expected role %s, got %q", role, access.Role)
		}
		if access.IsCreator {
			t.Fatal("non-creator flagged as creator")
		}
	}
}

func TestAccessForRemovedMemberIsNotMember(t *testing.T) {
	trip := &models.Trip{ID: 1, CreatedBy: 7}
	member := &models.TripMember{TripID: 1, UserID: 2, Role: RoleManager, Status: MemberRemoved}

	access := AccessFor(trip, member, 2)
	if access.IsMember() {
		t.Fatalf("removed member should not be a member, got %+v", access)
	}
}

func TestAccessForAnonymous(t *testing.T) {
	trip := &models.Trip{ID: 1, CreatedBy: 7}
	access := AccessFor(trip, nil, 0)
	if access.IsMember() || access.IsCreator {
		t.Fatalf("anonymous should have no access, got %+v", access)
	}
}

func TestPermissionGates(t *testing.T) {
	cases := []struct {
		role       string
		manage     bool
		operate    bool
	}{
		{RoleAdmin, true, true},
		{RoleManager, false, true},
		{RoleTraveller, false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		access := TripAccess{Role: tc.role}
		if access.CanManageTrip() != tc.manage {
			t.Errorf("role %q: CanManageTrip = %v, expected %v", tc.role, access.CanManageTrip(), tc.manage)
		}
		if access.CanOperate() != tc.operate {
			t.Errorf("role %q: CanOperate = %v, expected %v", tc.role, access.CanOperate(), tc.operate)
		}
	}
}

func TestCanViewByVisibility(t *testing.T) {
	public := &models.Trip{Visibility: VisibilityPublic}
	private := &models.Trip{Visibility: VisibilityPrivate}
	link := &models.Trip{Visibility: VisibilityLink}

	anonymous := TripAccess{}
	traveller := TripAccess{Role: RoleTraveller}

	if !anonymous.CanView(public) {
		t.Fatal("public trips should be viewable by anyone")
	}
	if anonymous.CanView(private) || anonymous.CanView(link) {
		t.Fatal("non-public trips should need membership")
	}
	if !traveller.CanView(private) || !traveller.CanView(link) {
		t.Fatal("members should view non-public trips")
	}
}
