package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func campaignTable() *Table[entity.MarketingCampaign] {
	return &Table[entity.MarketingCampaign]{
		Resource: "marketing.campaigns",
		Name:     "marketing_campaigns",
		Joins: `LEFT JOIN users cb ON cb.id = t.created_by
		LEFT JOIN users au ON au.id = t.assigned_to`,
		Projections: []Projection{
			{"created_by_name", personName("cb")},
			{"assigned_to_name", personName("au")},
		},
		Filters:      fields("campaign_type", "status", "assigned_to", "created_by", "currency"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "start_date", "end_date", "budget", "created_at"),
		DefaultOrder: "-created_at",
	}
}

func emailCampaignTable() *Table[entity.EmailCampaign] {
	return &Table[entity.EmailCampaign]{
		Resource:     "marketing.email-campaigns",
		Name:         "email_campaigns",
		Joins:        `LEFT JOIN marketing_campaigns mc ON mc.id = t.campaign_id`,
		Projections:  []Projection{{"campaign_name", "COALESCE(mc.name, '')"}},
		Filters:      fields("campaign=t.campaign_id", "email_type"),
		Search:       []string{"t.name", "t.subject_line", "t.sender_email"},
		Ordering:     fields("name", "scheduled_at", "sent_at", "created_at"),
		DefaultOrder: "-created_at",
	}
}

func emailTemplateTable() *Table[entity.EmailTemplate] {
	return &Table[entity.EmailTemplate]{
		Resource:     "marketing.email-templates",
		Name:         "email_templates",
		Filters:      fields("category", "is_active"),
		Search:       []string{"t.name", "t.description", "t.subject_line"},
		Ordering:     fields("name", "category", "created_at"),
		DefaultOrder: "name",
	}
}

func subscriberTable() *Table[entity.EmailSubscriber] {
	return &Table[entity.EmailSubscriber]{
		Resource:     "marketing.subscribers",
		Name:         "email_subscribers",
		Filters:      fields("status", "source"),
		Search:       []string{"t.email", "t.first_name", "t.last_name"},
		Ordering:     fields("email", "subscribed_at", "last_email_sent"),
		DefaultOrder: "-subscribed_at",
	}
}

func emailSendTable() *Table[entity.EmailSend] {
	return &Table[entity.EmailSend]{
		Resource:     "marketing.email-sends",
		Name:         "email_sends",
		Joins:        `LEFT JOIN email_subscribers s ON s.id = t.subscriber_id`,
		Projections:  []Projection{{"subscriber_email", "COALESCE(s.email, '')"}},
		Filters:      fields("email_campaign=t.email_campaign_id", "subscriber=t.subscriber_id", "customer=t.customer_id", "bounced", "unsubscribed"),
		Search:       []string{"s.email"},
		Ordering:     fields("sent_at", "opened_at", "clicked_at"),
		DefaultOrder: "-sent_at",
	}
}

func socialCampaignTable() *Table[entity.SocialMediaCampaign] {
	return &Table[entity.SocialMediaCampaign]{
		Resource:     "marketing.social-campaigns",
		Name:         "social_media_campaigns",
		Filters:      fields("campaign=t.campaign_id", "platform"),
		Search:       []string{"t.content", "t.post_url"},
		Ordering:     fields("scheduled_at", "published_at", "created_at"),
		DefaultOrder: "-created_at",
	}
}

func automationTable() *Table[entity.MarketingAutomation] {
	return &Table[entity.MarketingAutomation]{
		Resource:     "marketing.automations",
		Name:         "marketing_automations",
		Filters:      fields("trigger_type", "is_active"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "-created_at",
	}
}

func marketingMetricsTable() *Table[entity.MarketingMetrics] {
	return &Table[entity.MarketingMetrics]{
		Resource:     "marketing.metrics",
		Name:         "marketing_metrics",
		Joins:        `LEFT JOIN marketing_campaigns mc ON mc.id = t.campaign_id`,
		Projections:  []Projection{{"campaign_name", "COALESCE(mc.name, '')"}},
		Filters:      fields("campaign=t.campaign_id", "date"),
		Search:       []string{"mc.name"},
		Ordering:     fields("date", "impressions", "clicks", "conversions", "revenue", "roi"),
		DefaultOrder: "-date",
	}
}
