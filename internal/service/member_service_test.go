package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubdirectory/internal/errors"
	"clubdirectory/internal/model"
	"clubdirectory/internal/repository"
)

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) List(ctx context.Context, filter repository.Filter) ([]model.Member, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *MockMemberRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Update(ctx context.Context, id string, patch model.MemberPatch) (*model.Member, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCache is a mock implementation of cache.Store.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func intPtr(v int) *int { return &v }

func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestRandomMemberID(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := RandomMemberID()
		require.Len(t, id, 5)
		assert.Regexp(t, `^[1-9][0-9]{4}$`, id)
	}
}

func TestMemberService_CreateMember(t *testing.T) {
	tests := []struct {
		name          string
		input         MemberInput
		setupMock     func(*MockMemberRepository)
		expectedError error
		expectedID    string
	}{
		{
			name:  "successful creation defaults activities",
			input: MemberInput{Name: "Ann", Age: intPtr(30)},
			setupMock: func(m *MockMemberRepository) {
				m.On("Exists", mock.Anything, "12345").Return(false, nil)
				m.On("Create", mock.Anything, mock.MatchedBy(func(mem *model.Member) bool {
					return mem.ID == "12345" && mem.Name == "Ann" && mem.Activities != nil && len(mem.Activities) == 0
				})).Return(nil)
			},
			expectedID: "12345",
		},
		{
			name:  "colliding id is re-drawn",
			input: MemberInput{Name: "Bob", Activities: model.Activities{"Hiking"}},
			setupMock: func(m *MockMemberRepository) {
				m.On("Exists", mock.Anything, "12345").Return(true, nil)
				m.On("Exists", mock.Anything, "54321").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Member")).Return(nil)
			},
			expectedID: "54321",
		},
		{
			name:          "missing name does not touch the repository",
			input:         MemberInput{Age: intPtr(30)},
			setupMock:     func(m *MockMemberRepository) {},
			expectedError: errors.ErrNameRequired,
		},
		{
			name:          "blank name is treated as missing",
			input:         MemberInput{Name: "   "},
			setupMock:     func(m *MockMemberRepository) {},
			expectedError: errors.ErrNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMemberRepository)
			tt.setupMock(mockRepo)

			svc := NewMemberService(mockRepo, WithIDGenerator(sequence("12345", "54321")))
			member, err := svc.CreateMember(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, member)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, member.ID)
				assert.Equal(t, tt.input.Name, member.Name)
				assert.NotNil(t, member.Activities)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMemberService_CreateMemberExhaustsIDs(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	mockRepo.On("Exists", mock.Anything, "11111").Return(true, nil)

	svc := NewMemberService(mockRepo, WithIDGenerator(sequence("11111")))
	_, err := svc.CreateMember(context.Background(), MemberInput{Name: "Ann"})

	assert.ErrorIs(t, err, errors.ErrIDExhausted)
	mockRepo.AssertNumberOfCalls(t, "Exists", maxIDAttempts)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMemberService_UpdateMember(t *testing.T) {
	ctx := context.Background()
	patch := model.MemberPatch{Age: intPtr(31)}

	mockRepo := new(MockMemberRepository)
	mockRepo.On("Update", mock.Anything, "10001", patch).Return(&model.Member{ID: "10001", Name: "Ann", Age: intPtr(31)}, nil)
	mockRepo.On("Update", mock.Anything, "99999", patch).Return(nil, nil)

	svc := NewMemberService(mockRepo)

	updated, err := svc.UpdateMember(ctx, "10001", patch)
	require.NoError(t, err)
	assert.Equal(t, 31, *updated.Age)

	missing, err := svc.UpdateMember(ctx, "99999", patch)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	empty, err := svc.UpdateMember(ctx, "10001", model.MemberPatch{})
	assert.NoError(t, err)
	assert.Nil(t, empty)

	mockRepo.AssertNumberOfCalls(t, "Update", 2)
}

func TestMemberService_DeleteMember(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMemberRepository)
	mockRepo.On("Delete", mock.Anything, "10001").Return(true, nil)
	mockRepo.On("Delete", mock.Anything, "99999").Return(false, nil)
	mockRepo.On("Delete", mock.Anything, "boom").Return(false, stderrors.New("disk full"))

	svc := NewMemberService(mockRepo)

	assert.NoError(t, svc.DeleteMember(ctx, "10001"))
	assert.ErrorIs(t, svc.DeleteMember(ctx, "99999"), errors.ErrMemberNotFound)

	err := svc.DeleteMember(ctx, "boom")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrMemberNotFound)
	assert.Contains(t, err.Error(), "disk full")
}

func TestMemberService_ListMembersRejectsBadSort(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	svc := NewMemberService(mockRepo)

	_, err := svc.ListMembers(context.Background(), repository.Filter{SortField: "email", SortDirection: "asc"})
	assert.ErrorIs(t, err, errors.ErrInvalidQuery)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestMemberService_ListMembersReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	filter := repository.Filter{Query: "ann"}
	stored := []model.Member{{ID: "10001", Name: "Ann", Activities: model.Activities{}}}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	mockRepo := new(MockMemberRepository)
	mockRepo.On("List", mock.Anything, filter).Return(stored, nil).Once()

	mockCache := new(MockCache)
	key := "members:list:3:" + filter.Key()
	mockCache.On("Get", mock.Anything, generationKey).Return([]byte("3"), nil)
	mockCache.On("Get", mock.Anything, key).Return(nil, nil).Once()
	mockCache.On("Set", mock.Anything, key, payload, 30*time.Second).Return(nil).Once()
	mockCache.On("Get", mock.Anything, key).Return(payload, nil).Once()

	svc := NewMemberService(mockRepo, WithCache(mockCache, 30*time.Second))

	first, err := svc.ListMembers(ctx, filter)
	require.NoError(t, err)
	second, err := svc.ListMembers(ctx, filter)
	require.NoError(t, err)

	assert.Equal(t, stored, first)
	assert.Equal(t, stored, second)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestMemberService_MutationsBumpCacheGeneration(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMemberRepository)
	mockRepo.On("Exists", mock.Anything, "12345").Return(false, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("Delete", mock.Anything, "12345").Return(true, nil)
	mockRepo.On("Delete", mock.Anything, "99999").Return(false, nil)

	mockCache := new(MockCache)
	mockCache.On("Incr", mock.Anything, generationKey).Return(int64(1), nil)

	svc := NewMemberService(mockRepo, WithCache(mockCache, 0), WithIDGenerator(sequence("12345")))

	_, err := svc.CreateMember(ctx, MemberInput{Name: "Ann"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMember(ctx, "12345"))
	_ = svc.DeleteMember(ctx, "99999")

	mockCache.AssertNumberOfCalls(t, "Incr", 2)
}
