package service

import (
	"context"
	"fmt"
	"net/url"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
)

const (
	LINKEDIN_AUTH_URL  = "https://www.linkedin.com/oauth/v2/authorization"
	INSTAGRAM_AUTH_URL = "https://www.instagram.com/oauth/authorize"
	FACEBOOK_AUTH_URL  = "https://www.facebook.com/v21.0/dialog/oauth"
)

// PlatformService builds the provider authorization URLs. Token exchange for
// the social platforms happens outside, tokens come back through the keys API.
type PlatformService interface {
	GetAuthURL(ctx context.Context, platform, tokenString string) string
}

type platformService struct {
	cfg config.Config
}

func NewPlatformService(cfg config.Config) PlatformService {
	return &platformService{
		cfg: cfg,
	}
}

func (s *platformService) GetAuthURL(ctx context.Context, platform, tokenString string) string {
	switch platform {
	case "linkedin":
		params := url.Values{}
		params.Add("client_id", s.cfg.LinkedinClientID)
		params.Add("scope", "openid profile w_member_social")
		params.Add("response_type", "code")
		params.Add("redirect_uri", s.cfg.LinkedinRedirectURI)
		params.Add("state", tokenString)

		return fmt.Sprintf("%s?%s", LINKEDIN_AUTH_URL, params.Encode())

	case "instagram":
		params := url.Values{}
		params.Add("client_id", s.cfg.InstagramClientID)
		params.Add("scope", "instagram_business_basic,instagram_business_content_publish")
		params.Add("response_type", "code")
		params.Add("redirect_uri", s.cfg.InstagramRedirectURI)
		params.Add("state", tokenString)

		return fmt.Sprintf("%s?%s", INSTAGRAM_AUTH_URL, params.Encode())

	case "facebook":
		params := url.Values{}
		params.Add("client_id", s.cfg.FacebookClientID)
		params.Add("scope", "pages_manage_posts,pages_read_engagement")
		params.Add("response_type", "code")
		params.Add("redirect_uri", s.cfg.FacebookRedirectURI)
		params.Add("state", tokenString)

		return fmt.Sprintf("%s?%s", FACEBOOK_AUTH_URL, params.Encode())

	default:
		return ""
	}
}
