package service

import (
	"context"
	"errors"
	"testing"

	"ambassador_engine/internal/model"
	"ambassador_engine/internal/repository"
	"ambassador_engine/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReferralService_Attribute(t *testing.T) {
	code := "REF1"
	empty := ""
	projectTask := &model.Task{ID: 10, ProjectID: int64Ptr(1)}

	tests := []struct {
		name          string
		task          *model.Task
		mockSetup     func(repo *mocks.MockReferralRepository)
		expectCreated bool
		expectedError bool
	}{
		{
			name:      "Task outside any project",
			task:      &model.Task{ID: 10},
			mockSetup: func(repo *mocks.MockReferralRepository) {},
		},
		{
			name: "Not the first done task in the project",
			task: projectTask,
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("CountDoneSubmissionsInProject", mock.Anything, int64(5), int64(1)).Return(2, nil)
			},
		},
		{
			name: "No referral code on the membership",
			task: projectTask,
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("CountDoneSubmissionsInProject", mock.Anything, int64(5), int64(1)).Return(1, nil)
				repo.On("GetProjectReferralCode", mock.Anything, int64(5), int64(1)).Return(nil, nil)
			},
		},
		{
			name: "Blank referral code",
			task: projectTask,
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("CountDoneSubmissionsInProject", mock.Anything, int64(5), int64(1)).Return(1, nil)
				repo.On("GetProjectReferralCode", mock.Anything, int64(5), int64(1)).Return(&empty, nil)
			},
		},
		{
			name: "Nobody else carries the code",
			task: projectTask,
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("CountDoneSubmissionsInProject", mock.Anything, int64(5), int64(1)).Return(1, nil)
				repo.On("GetProjectReferralCode", mock.Anything, int64(5), int64(1)).Return(&code, nil)
				repo.On("FindSubmissionByReferralCode", mock.Anything, code, int64(5)).Return(nil, repository.ErrNotFound)
			},
		},
		{
			name: "Referrer found",
			task: projectTask,
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("CountDoneSubmissionsInProject", mock.Anything, int64(5), int64(1)).Return(1, nil)
				repo.On("GetProjectReferralCode", mock.Anything, int64(5), int64(1)).Return(&code, nil)
				repo.On("FindSubmissionByReferralCode", mock.Anything, code, int64(5)).
					Return(&model.Submission{ID: 70, TaskID: 30, ParticipantID: 9}, nil)
				repo.On("CreateReferral", mock.Anything, mock.AnythingOfType("*model.Referral")).Return(nil)
			},
			expectCreated: true,
		},
		{
			name: "Count failure",
			task: projectTask,
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("CountDoneSubmissionsInProject", mock.Anything, int64(5), int64(1)).Return(0, errors.New("db gone"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockReferralRepository{}
			svc := NewReferralService(repo)
			tt.mockSetup(repo)

			ref, err := svc.Attribute(context.Background(), 5, tt.task)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.expectCreated {
				if assert.NotNil(t, ref) {
					assert.Equal(t, int64(9), ref.ParticipantID)
					assert.Equal(t, int64(5), ref.ReferralID)
					assert.Equal(t, int64(30), ref.TaskID)
					assert.Equal(t, int64(70), ref.SubmissionID)
				}
			} else {
				assert.Nil(t, ref)
				repo.AssertNotCalled(t, "CreateReferral", mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}
