package dto

import (
	"taskhub-api/domain/models"
)

func UserToSummary(user *models.User) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func UserToProfileResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

func UsersToListItems(users []*models.User) []UserListItem {
	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{ID: u.ID, Username: u.Username})
	}
	return items
}

func TaskToTaskResponse(task *models.Task) TaskResponse {
	ref := &UserRef{ID: task.AssignedTo}
	if task.Assignee.ID == task.AssignedTo {
		ref.Username = task.Assignee.Username
	}
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		AssignedTo:  ref,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, TaskToTaskResponse(t))
	}
	return responses
}
