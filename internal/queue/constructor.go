package queue

import (
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/repository"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/scheduler"
)

type Queue struct {
	pr    repository.PostRepository
	sched *scheduler.Scheduler
}

func NewQueue(pr repository.PostRepository, sched *scheduler.Scheduler) *Queue {
	return &Queue{
		pr:    pr,
		sched: sched,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}
