package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
)

func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.PublishPost(ctx, payload.PostID)
}

// PublishPost pushes one pending post through the same path the scheduler
// uses. The status check here is only a cheap filter for tasks that went
// stale between enqueue and execution, the atomic claim inside ProcessPost
// decides which caller actually publishes.
func (j *Queue) PublishPost(ctx context.Context, postID int64) error {
	post, exists, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		log.Printf("post %d no longer exists, dropping task", postID)
		return nil
	}

	if post.Status != models.PostStatusPending {
		log.Printf("post %d is %s, dropping task", postID, post.Status)
		return nil
	}

	return j.sched.ProcessPost(ctx, post)
}
