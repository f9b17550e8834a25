package service

import (
	"errors"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/repository"
	"Seva_Community/internal/repository/mysql"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	repo  *mysql.TaskRepository
	comms *repository.CommunityRepository
}

func NewTaskService(repo *mysql.TaskRepository, comms *repository.CommunityRepository) *TaskService {
	return &TaskService{repo: repo, comms: comms}
}

func (s *TaskService) CreateTask(creatorID, communityID, title, desc string, priority int, dueAt *time.Time) (*model.Task, error) {
	if title == "" {
		return nil, errors.New("title required")
	}
	if _, ok := s.comms.GetByID(communityID); !ok {
		return nil, ErrCommunityNotFound
	}
	if priority < 0 || priority > 2 {
		priority = 1
	}

	task := &model.Task{
		CommunityID: communityID,
		CreatorID:   creatorID,
		Title:       title,
		Description: desc,
		Status:      model.TaskOpen,
		Priority:    priority,
		DueAt:       dueAt,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetTask(id uint64) (*model.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ListByCommunity 页码分页，status<0 表示不按状态过滤
func (s *TaskService) ListByCommunity(communityID string, status, page, size int) ([]model.Task, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByCommunity(communityID, status, offset, size)
}

// ListByCommunityCursor 游标分页：首次不传 lastID/lastCreatedAt（或传 0）
// 返回 nextLastID/nextLastCreatedAt 供下一页使用
func (s *TaskService) ListByCommunityCursor(communityID string, lastID uint64, lastCreatedAt int64, size int) ([]model.Task, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.repo.ListByCommunityCursor(communityID, lastID, lastCreatedAt, size)
	if err != nil {
		return nil, 0, 0, err
	}
	var nextID uint64
	var nextTS int64
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt.Unix()
	}
	return list, nextID, nextTS, nil
}

func (s *TaskService) UpdateStatus(id uint64, status int) error {
	if status < model.TaskOpen || status > model.TaskDone {
		return errors.New("invalid task status")
	}
	affected, err := s.repo.UpdateStatus(id, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteTask 幂等删除：成功/已删除均返回 nil；仅无权限时报错
func (s *TaskService) DeleteTask(operatorID string, taskID uint64) error {
	affected, err := s.repo.DeleteWithPermission(taskID, operatorID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// 已删除或不存在视为幂等成功；还能读到说明是无权限
		if _, err = s.repo.FindByID(taskID); err != nil {
			return nil
		}
		return errors.New("no permission")
	}
	return nil
}
