package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/jonathan/skillcast/internal/store"
)

const profileModalID = "profile_modal"

// registerCommands installs the global slash commands.
func (b *Bot) registerCommands() error {
	adminOnly := int64(discordgo.PermissionAdministrator)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "register",
			Description: "Register or update your profile",
		},
		{
			Name:        "profile",
			Description: "View your profile",
		},
		{
			Name:        "edit_profile",
			Description: "Edit your existing profile",
		},
		{
			Name:                     "set_theme",
			Description:              "Set the server's theme (Admin only)",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "theme",
					Description: "The server theme",
					Required:    true,
				},
			},
		},
		{
			Name:        "stats",
			Description: "View bot statistics for this server",
		},
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
	}
	b.logger.Info("slash commands registered", "count", len(commands))

	return nil
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return
	}

	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "register":
			err = b.handleRegister(s, i, nil)
		case "profile":
			err = b.handleProfile(s, i)
		case "edit_profile":
			err = b.handleEditProfile(s, i)
		case "set_theme":
			err = b.handleSetTheme(s, i)
		case "stats":
			err = b.handleStats(s, i)
		}
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == profileModalID {
			err = b.handleProfileSubmit(s, i)
		}
	}

	if err != nil {
		b.logger.Error("interaction failed", "error", err)
		b.respondError(s, i, "An error occurred while processing your command.")
	}
}

// handleRegister opens the profile registration modal, prefilled from an
// existing profile when one is supplied.
func (b *Bot) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate, existing *store.MemberProfile) error {
	var jobTitle, skills, interests string
	if existing != nil {
		jobTitle = existing.JobTitle
		skills = existing.Skills
		interests = existing.Interests
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: profileModalID,
			Title:    "Profile Registration",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "job_title",
						Label:       "Job Title",
						Style:       discordgo.TextInputShort,
						Placeholder: "e.g., Software Engineer, Data Scientist",
						Required:    true,
						MaxLength:   100,
						Value:       jobTitle,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "skills",
						Label:       "Skills",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "e.g., Python, React, Machine Learning, AWS",
						Required:    true,
						MaxLength:   500,
						Value:       skills,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "interests",
						Label:       "Interests",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "e.g., Web Development, AI, DevOps, Open Source",
						Required:    true,
						MaxLength:   500,
						Value:       interests,
					},
				}},
			},
		},
	})
}

// handleProfileSubmit saves the modal form as the member's profile.
func (b *Bot) handleProfileSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()
	fields := modalValues(data)

	profile := &store.MemberProfile{
		MemberID:  i.Member.User.ID,
		GuildID:   i.GuildID,
		Username:  i.Member.User.Username,
		JobTitle:  fields["job_title"],
		Skills:    fields["skills"],
		Interests: fields["interests"],
	}

	if err := b.store.UpsertMember(context.Background(), profile); err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "✅ Profile Registered",
		Description: "Your profile has been saved successfully!",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Job Title", Value: profile.JobTitle, Inline: false},
			{Name: "Skills", Value: profile.Skills, Inline: false},
			{Name: "Interests", Value: profile.Interests, Inline: false},
		},
	}

	return b.respondEmbed(s, i, embed)
}

func (b *Bot) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	profile, err := b.store.GetMember(context.Background(), i.Member.User.ID, i.GuildID)
	if err != nil {
		return err
	}
	if profile == nil {
		b.respondError(s, i, "You haven't registered yet! Use `/register` to create your profile.")
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Profile: %s", displayName(i.Member)),
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Job Title", Value: profile.JobTitle, Inline: false},
			{Name: "Skills", Value: profile.Skills, Inline: false},
			{Name: "Interests", Value: profile.Interests, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Last updated: %s", profile.UpdatedAt.Format("2006-01-02 15:04:05")),
		},
	}

	return b.respondEmbed(s, i, embed)
}

func (b *Bot) handleEditProfile(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	profile, err := b.store.GetMember(context.Background(), i.Member.User.ID, i.GuildID)
	if err != nil {
		return err
	}
	if profile == nil {
		b.respondError(s, i, "You need to register first! Use `/register` to create your profile.")
		return nil
	}

	return b.handleRegister(s, i, profile)
}

func (b *Bot) handleSetTheme(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		b.respondError(s, i, "You don't have permission to use this command.")
		return nil
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondError(s, i, "A theme value is required.")
		return nil
	}
	theme := options[0].StringValue()

	if err := b.store.SetTheme(context.Background(), i.GuildID, theme); err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "✅ Theme Updated",
		Description: fmt.Sprintf("Server theme set to: **%s**", theme),
		Color:       colorGreen,
	}

	// Theme confirmations are visible to the whole channel.
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func (b *Bot) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	count, err := b.store.CountMembers(ctx, i.GuildID)
	if err != nil {
		return err
	}

	theme, err := b.store.GetTheme(ctx, i.GuildID)
	if err != nil {
		return err
	}
	if theme == "" {
		theme = b.defaultTheme
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Server Statistics",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Registered Users", Value: fmt.Sprintf("%d", count), Inline: true},
			{Name: "Server Theme", Value: theme, Inline: false},
		},
	}

	return b.respondEmbed(s, i, embed)
}

// respondEmbed sends an ephemeral embed response to an interaction.
func (b *Bot) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondError sends an ephemeral error message; delivery failures are only
// logged since there is nothing further to do for the user.
func (b *Bot) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("failed to send error response", "error", err)
	}
}

// modalValues flattens modal submit components into a custom-ID keyed map.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			if input, ok := component.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

// displayName prefers the guild nickname over the account username.
func displayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	return member.User.Username
}
