package service

import (
	"context"
	"sync"
	"testing"

	"Mod_Community/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAuthorizeTransfer(t *testing.T) {
	tests := []struct {
		name      string
		requester uint64
		topMod    uint64
		admins    []uint64
		want      bool
	}{
		{"top moderator", 1, 1, nil, true},
		{"admin not in roster", 9, 1, []uint64{8, 9}, true},
		{"admin who is also top moderator", 1, 1, []uint64{1}, true},
		{"ordinary moderator", 2, 1, []uint64{9}, false},
		{"stranger", 7, 1, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authorizeTransfer(tt.requester, tt.topMod, tt.admins))
		})
	}
}

func TestReorderModerators(t *testing.T) {
	got, err := reorderModerators([]uint64{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 2}, got)

	// 目标已在首位时原样返回
	got, err = reorderModerators([]uint64{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, got)

	got, err = reorderModerators([]uint64{1, 2, 3, 4, 5}, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 1, 2, 3, 5}, got)

	got, err = reorderModerators([]uint64{1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, got)

	_, err = reorderModerators([]uint64{1, 2, 3}, 4)
	assert.ErrorIs(t, err, ErrTargetNotModerator)
}

func TestReorderModeratorsKeepsRelativeOrder(t *testing.T) {
	in := []uint64{10, 20, 30, 40, 50, 60}
	got, err := reorderModerators(in, 40)
	require.NoError(t, err)
	require.Len(t, got, len(in))
	assert.Equal(t, uint64(40), got[0])

	// 除目标外其余成员相对次序不变，且无增删
	rest := got[1:]
	assert.Equal(t, []uint64{10, 20, 30, 50, 60}, rest)
	// 输入不被原地修改
	assert.Equal(t, []uint64{10, 20, 30, 40, 50, 60}, in)
}

// ---- 内存版 TransferStore：提交语义与事务回滚对齐 ----

type fakeState struct {
	communities map[uint64]model.Community
	mods        map[uint64][]model.CommunityModerator
	admins      []uint64
	logs        []model.ModTransferCommunity
	outbox      []model.FederationOutbox
}

func (s fakeState) clone() fakeState {
	out := fakeState{
		communities: make(map[uint64]model.Community, len(s.communities)),
		mods:        make(map[uint64][]model.CommunityModerator, len(s.mods)),
		admins:      append([]uint64(nil), s.admins...),
		logs:        append([]model.ModTransferCommunity(nil), s.logs...),
		outbox:      append([]model.FederationOutbox(nil), s.outbox...),
	}
	for k, v := range s.communities {
		out.communities[k] = v
	}
	for k, v := range s.mods {
		out.mods[k] = append([]model.CommunityModerator(nil), v...)
	}
	return out
}

type fakeStore struct {
	mu           sync.Mutex
	state        fakeState
	failInsertAt int // >0 时第N次插入报错，用于验证回滚
}

func newFakeStore(communityID uint64, roster []uint64, admins []uint64) *fakeStore {
	st := fakeState{
		communities: map[uint64]model.Community{
			communityID: {ID: communityID, Name: "golang", CreatorID: roster[0]},
		},
		mods:   map[uint64][]model.CommunityModerator{},
		admins: admins,
	}
	for i, pid := range roster {
		st.mods[communityID] = append(st.mods[communityID], model.CommunityModerator{
			ID:          uint64(i + 1),
			CommunityID: communityID,
			PersonID:    pid,
			Rank:        i,
		})
	}
	return &fakeStore{state: st}
}

// InTransaction 互斥模拟行锁，fn 出错则整份状态丢弃
func (s *fakeStore) InTransaction(_ context.Context, fn func(tx model.TransferTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &fakeTx{state: s.state.clone(), failInsertAt: s.failInsertAt}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (s *fakeStore) roster(communityID uint64) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uint64
	for _, m := range s.state.mods[communityID] {
		out = append(out, m.PersonID)
	}
	return out
}

type fakeTx struct {
	state        fakeState
	failInsertAt int
	inserts      int
}

func (t *fakeTx) LockCommunity(id uint64) (*model.Community, error) {
	c, ok := t.state.communities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (t *fakeTx) ListModerators(communityID uint64) ([]model.CommunityModerator, error) {
	return append([]model.CommunityModerator(nil), t.state.mods[communityID]...), nil
}

func (t *fakeTx) AdminIDs() ([]uint64, error) {
	return append([]uint64(nil), t.state.admins...), nil
}

func (t *fakeTx) ReplaceModerators(communityID uint64, orderedPersonIDs []uint64) error {
	delete(t.state.mods, communityID)
	seen := map[uint64]bool{}
	for i, pid := range orderedPersonIDs {
		t.inserts++
		if t.failInsertAt > 0 && t.inserts == t.failInsertAt {
			return assert.AnError
		}
		if seen[pid] {
			return gorm.ErrDuplicatedKey
		}
		seen[pid] = true
		t.state.mods[communityID] = append(t.state.mods[communityID], model.CommunityModerator{
			CommunityID: communityID,
			PersonID:    pid,
			Rank:        i,
		})
	}
	return nil
}

func (t *fakeTx) AppendTransferLog(rec *model.ModTransferCommunity) error {
	if rec.ModPersonID == 0 || rec.OtherPersonID == 0 || rec.CommunityID == 0 {
		return assert.AnError
	}
	t.state.logs = append(t.state.logs, *rec)
	return nil
}

func (t *fakeTx) EnqueueFederation(ob *model.FederationOutbox) error {
	t.state.outbox = append(t.state.outbox, *ob)
	return nil
}

type fakeViews struct {
	st   *fakeStore
	fail bool
}

func (v *fakeViews) GetCommunityView(_ context.Context, communityID uint64) (*CommunityResponse, error) {
	if v.fail {
		return nil, assert.AnError
	}
	v.st.mu.Lock()
	defer v.st.mu.Unlock()
	c, ok := v.st.state.communities[communityID]
	if !ok {
		return nil, ErrCommunityNotFound
	}
	var views []ModeratorView
	for _, m := range v.st.state.mods[communityID] {
		views = append(views, ModeratorView{Person: PersonView{ID: m.PersonID}, Rank: m.Rank})
	}
	return &CommunityResponse{
		CommunityView:       &c,
		Moderators:          views,
		Online:              0,
		DiscussionLanguages: []string{},
	}, nil
}

type fakeLock struct {
	busy bool
}

func (l *fakeLock) Acquire(context.Context, uint64, string) (bool, error) { return !l.busy, nil }
func (l *fakeLock) Release(context.Context, uint64, string) error        { return nil }

func newTestService(st *fakeStore) *TransferService {
	return &TransferService{
		store: st,
		views: &fakeViews{st: st},
		lock:  &fakeLock{},
	}
}

const (
	userA = uint64(1)
	userB = uint64(2)
	userC = uint64(3)
	userD = uint64(4)
	comm  = uint64(100)
)

func TestTransferByTopModerator(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB, userC}, nil)
	svc := newTestService(st)

	resp, err := svc.Transfer(context.Background(), userA, comm, userC)
	require.NoError(t, err)

	assert.Equal(t, []uint64{userC, userA, userB}, st.roster(comm))
	require.Len(t, resp.Moderators, 3)
	assert.Equal(t, userC, resp.Moderators[0].Person.ID)
	assert.Equal(t, 0, resp.Moderators[0].Rank)
	assert.Equal(t, 2, resp.Moderators[2].Rank)

	require.Len(t, st.state.logs, 1)
	assert.Equal(t, userA, st.state.logs[0].ModPersonID)
	assert.Equal(t, userC, st.state.logs[0].OtherPersonID)
	assert.Equal(t, comm, st.state.logs[0].CommunityID)
	assert.False(t, st.state.logs[0].Removed)

	require.Len(t, st.state.outbox, 1)
	assert.Equal(t, "transfer_community", st.state.outbox[0].EventType)
	assert.Equal(t, userA, st.state.outbox[0].ActorID)
	assert.Equal(t, userC, st.state.outbox[0].SubjectID)
}

func TestTransferByAdmin(t *testing.T) {
	// userD 不在名单里但是站点管理员
	st := newFakeStore(comm, []uint64{userA, userB, userC}, []uint64{userD})
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userD, comm, userB)
	require.NoError(t, err)
	assert.Equal(t, []uint64{userB, userA, userC}, st.roster(comm))
}

func TestTransferNotAuthorized(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB, userC}, nil)
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userB, comm, userC)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, []uint64{userA, userB, userC}, st.roster(comm))
	assert.Empty(t, st.state.logs)
	assert.Empty(t, st.state.outbox)
}

func TestTransferTargetNotModerator(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB, userC}, nil)
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userA, comm, userD)
	assert.ErrorIs(t, err, ErrTargetNotModerator)
	assert.Equal(t, []uint64{userA, userB, userC}, st.roster(comm))
	assert.Empty(t, st.state.logs)
}

func TestTransferRosterEmpty(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA}, nil)
	st.state.mods[comm] = nil
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userA, comm, userB)
	assert.ErrorIs(t, err, ErrRosterEmpty)
}

func TestTransferCommunityNotFound(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB}, nil)
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userA, 999, userB)
	assert.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestTransferRollbackOnPartialInsert(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB, userC, userD, 5}, nil)
	st.failInsertAt = 3
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userA, comm, userC)
	require.Error(t, err)

	// 第三次插入失败后整个事务回滚，名单与转移前逐项一致
	assert.Equal(t, []uint64{userA, userB, userC, userD, 5}, st.roster(comm))
	assert.Empty(t, st.state.logs)
	assert.Empty(t, st.state.outbox)
}

func TestTransferTwiceAppendsTwoAuditRecords(t *testing.T) {
	// A 是管理员，第二次转移时已不是 rank0 仍可操作
	st := newFakeStore(comm, []uint64{userA, userB, userC}, []uint64{userA})
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userA, comm, userC)
	require.NoError(t, err)
	assert.Equal(t, []uint64{userC, userA, userB}, st.roster(comm))

	// 第二次以转移后的名单为输入
	_, err = svc.Transfer(context.Background(), userA, comm, userB)
	require.NoError(t, err)
	assert.Equal(t, []uint64{userB, userC, userA}, st.roster(comm))

	require.Len(t, st.state.logs, 2)
	assert.Equal(t, userC, st.state.logs[0].OtherPersonID)
	assert.Equal(t, userB, st.state.logs[1].OtherPersonID)
	assert.Len(t, st.state.outbox, 2)
}

func TestTransferConcurrentSerializes(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB, userC}, []uint64{userA})
	svc := newTestService(st)

	var wg sync.WaitGroup
	for _, target := range []uint64{userB, userC} {
		wg.Add(1)
		go func(target uint64) {
			defer wg.Done()
			_, err := svc.Transfer(context.Background(), userA, comm, target)
			assert.NoError(t, err)
		}(target)
	}
	wg.Wait()

	// 两次转移串行生效：名单仍是同一批人，rank 连续，rank0 是后提交的目标
	roster := st.roster(comm)
	require.Len(t, roster, 3)
	assert.ElementsMatch(t, []uint64{userA, userB, userC}, roster)
	assert.Contains(t, []uint64{userB, userC}, roster[0])
	for i, m := range st.state.mods[comm] {
		assert.Equal(t, i, m.Rank)
	}
	assert.Equal(t, st.state.logs[len(st.state.logs)-1].OtherPersonID, roster[0])
	assert.Len(t, st.state.logs, 2)
}

func TestTransferDuplicateMembershipIsInternal(t *testing.T) {
	// 名单里出现重复成员属于上游不变量被破坏，重插撞唯一键后必须整体回滚
	st := newFakeStore(comm, []uint64{userA, userB, userA}, nil)
	svc := newTestService(st)

	_, err := svc.Transfer(context.Background(), userA, comm, userB)
	assert.ErrorIs(t, err, ErrDuplicateModerator)
	assert.Equal(t, []uint64{userA, userB, userA}, st.roster(comm))
	assert.Empty(t, st.state.logs)
}

func TestTransferLockBusy(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB}, nil)
	svc := newTestService(st)
	svc.lock = &fakeLock{busy: true}

	_, err := svc.Transfer(context.Background(), userA, comm, userB)
	assert.ErrorIs(t, err, ErrTransferBusy)
	assert.Equal(t, []uint64{userA, userB}, st.roster(comm))
}

func TestTransferReadbackFailureAfterCommit(t *testing.T) {
	st := newFakeStore(comm, []uint64{userA, userB}, nil)
	svc := newTestService(st)
	svc.views = &fakeViews{st: st, fail: true}

	_, err := svc.Transfer(context.Background(), userA, comm, userB)
	assert.ErrorIs(t, err, ErrReadAfterCommit)
	// 回读失败不代表转移失败，提交结果保留
	assert.Equal(t, []uint64{userB, userA}, st.roster(comm))
	assert.Len(t, st.state.logs, 1)
}
