package service

import (
	"testing"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommunityService() (*CommunityService, *memCommunityPrimary) {
	log := zerolog.Nop()
	commsP := &memCommunityPrimary{memPrimary: newMemPrimary[*model.Community]()}
	membersP := newMemPrimary[*model.Member]()
	svc := NewCommunityService(
		repository.NewCommunityRepository(commsP, log),
		repository.NewMemberRepository(membersP, log),
	)
	return svc, commsP
}

func testOwner() *model.User {
	return &model.User{
		ID:       "owner-1",
		Email:    "owner@example.org",
		FullName: "Owner",
		Role:     model.RoleUser,
		Status:   model.StatusActive,
	}
}

func TestCreateCommunity(t *testing.T) {
	svc, _ := newCommunityService()

	c, err := svc.CreateCommunity(testOwner(), "Seva Mandal", "desc", "")
	require.NoError(t, err)
	assert.Equal(t, "seva-mandal", c.Slug)
	assert.Equal(t, "owner-1", c.OwnerID)
	assert.Equal(t, model.StatusActive, c.Status)

	// 创建人自动成为 owner 成员，计数随之 +1
	got, err := svc.GetCommunity(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.MemberCount)
}

func TestCreateCommunitySlugConflict(t *testing.T) {
	svc, _ := newCommunityService()

	_, err := svc.CreateCommunity(testOwner(), "Seva Mandal", "", "")
	require.NoError(t, err)

	_, err = svc.CreateCommunity(testOwner(), "Seva  Mandal", "", "")
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestGetBySlug(t *testing.T) {
	svc, _ := newCommunityService()

	created, err := svc.CreateCommunity(testOwner(), "Green City", "", "")
	require.NoError(t, err)

	got, err := svc.GetBySlug("green-city")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetBySlug("missing")
	assert.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestUpdateCommunity(t *testing.T) {
	svc, _ := newCommunityService()

	c, err := svc.CreateCommunity(testOwner(), "Seva", "old", "")
	require.NoError(t, err)

	name := "Seva Trust"
	desc := "new"
	got, err := svc.UpdateCommunity(c.ID, model.CommunityPatch{Name: &name, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Seva Trust", got.Name)
	assert.Equal(t, "new", got.Description)
	// 未指定的字段保持原值
	assert.Equal(t, "seva", got.Slug)

	_, err = svc.UpdateCommunity("missing", model.CommunityPatch{Name: &name})
	assert.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestArchiveCommunity(t *testing.T) {
	svc, _ := newCommunityService()

	c, err := svc.CreateCommunity(testOwner(), "Seva", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveCommunity(c.ID))
	got, err := svc.GetCommunity(c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, got.Status)

	assert.ErrorIs(t, svc.ArchiveCommunity("missing"), ErrCommunityNotFound)
}

// 主存储宕机期间创建照常成功，恢复前一直从兜底副本服务
func TestCreateCommunityWithPrimaryDown(t *testing.T) {
	svc, commsP := newCommunityService()
	commsP.down = true

	c, err := svc.CreateCommunity(testOwner(), "Seva", "", "")
	require.NoError(t, err)

	got, err := svc.GetCommunity(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "seva", got.Slug)
}

func TestListCommunities(t *testing.T) {
	svc, _ := newCommunityService()

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := svc.CreateCommunity(testOwner(), name, "", "")
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	all := svc.ListCommunities("", "", "", 1, 20)
	assert.Len(t, all, 3)

	matched := svc.ListCommunities("", "", "beta", 1, 20)
	require.Len(t, matched, 1)
	assert.Equal(t, "beta", matched[0].Slug)
}
