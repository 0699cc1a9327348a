package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/validation"
)

var attachmentCmd = &cobra.Command{
	Use:   "attachment",
	Short: "Manage board attachments and attachment types",
}

var attachmentAddCmd = &cobra.Command{
	Use:   "add <board-id> <name> <url>",
	Short: "Record an uploaded file on a board",
	Long: `Record an uploaded file on a board. The URL is stored as given. With
--type the URL must end in an extension accepted by the type.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		boardID, err := parseID(args[0], "board")
		if err != nil {
			return err
		}
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}

		a := &model.Attachment{BoardID: boardID, Name: args[1], FilePath: args[2], UploadedBy: actor.Ref()}
		typeID, err := idFlag(cmd, "type")
		if err != nil {
			return err
		}
		if typeID > 0 {
			a.AttachmentTypeID = &typeID
		}
		if err := validation.New().Validate(a); err != nil {
			return err
		}
		if err := getStore(cmd).CreateAttachment(cmd.Context(), a); err != nil {
			return err
		}
		getWriter(cmd).Success(a, fmt.Sprintf("Added attachment %s: %s", model.FormatID(a.ID), a.Name))
		return nil
	},
}

var attachmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attachments",
	RunE: func(cmd *cobra.Command, args []string) error {
		boardID, err := idFlag(cmd, "board")
		if err != nil {
			return err
		}
		store := getStore(cmd)
		ctx := cmd.Context()
		attachments, err := store.ListAttachments(ctx, boardID)
		if err != nil {
			return err
		}
		w := getWriter(cmd)
		if w.JSONMode {
			w.Success(attachments, "")
			return nil
		}

		types, err := store.ListAttachmentTypes(ctx)
		if err != nil {
			return err
		}
		typeNames := make(map[int]string, len(types))
		for _, t := range types {
			typeNames[t.ID] = t.Name
		}
		users, err := userNames(ctx, store)
		if err != nil {
			return err
		}
		w.Success(attachments, render.RenderAttachmentTable(attachments, typeNames, users))
		return nil
	},
}

var attachmentTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List attachment types",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := getStore(cmd).ListAttachmentTypes(cmd.Context())
		if err != nil {
			return err
		}
		getWriter(cmd).Success(types, render.RenderAttachmentTypeTable(types))
		return nil
	},
}

var attachmentTypeCreateCmd = &cobra.Command{
	Use:   "type-create <name> <images|documents>",
	Short: "Create an attachment type accepting one extension group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := model.ParseExtensionGroup(args[1])
		if err != nil {
			return cmdErr(err, output.ErrValidation)
		}
		t := &model.AttachmentType{Name: args[0], FileExtension: group}
		if err := validation.New().Validate(t); err != nil {
			return err
		}
		if err := getStore(cmd).CreateAttachmentType(cmd.Context(), t); err != nil {
			return err
		}
		getWriter(cmd).Success(t, fmt.Sprintf("Created attachment type %s: %s (%s)", model.FormatID(t.ID), t.Name, t.FileExtension))
		return nil
	},
}

var attachmentEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the name, URL or type of an attachment",
	Long: `Change the name, URL or type of an attachment. The URL is checked
against the type again. Use --type "" to clear the type.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !anyChanged(cmd, "name", "url", "type") {
			return cmdErr(fmt.Errorf("nothing to change: use --name, --url or --type"), output.ErrValidation)
		}
		id, err := parseID(args[0], "attachment")
		if err != nil {
			return err
		}
		store := getStore(cmd)
		a, err := store.GetAttachment(cmd.Context(), id)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			a.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("url") {
			a.FilePath, _ = cmd.Flags().GetString("url")
		}
		if cmd.Flags().Changed("type") {
			typeID, err := idFlag(cmd, "type")
			if err != nil {
				return err
			}
			a.AttachmentTypeID = nil
			if typeID > 0 {
				a.AttachmentTypeID = &typeID
			}
		}
		if err := validation.New().Validate(a); err != nil {
			return err
		}
		if err := store.UpdateAttachment(cmd.Context(), a); err != nil {
			return err
		}
		getWriter(cmd).Success(a, fmt.Sprintf("Updated attachment %s: %s", model.FormatID(a.ID), a.Name))
		return nil
	},
}

var attachmentTypeEditCmd = &cobra.Command{
	Use:   "type-edit <id>",
	Short: "Rename an attachment type or change its extension group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !anyChanged(cmd, "name", "group") {
			return cmdErr(fmt.Errorf("nothing to change: use --name or --group"), output.ErrValidation)
		}
		id, err := parseID(args[0], "attachment type")
		if err != nil {
			return err
		}
		store := getStore(cmd)
		t, err := store.GetAttachmentType(cmd.Context(), id)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			t.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("group") {
			raw, _ := cmd.Flags().GetString("group")
			if t.FileExtension, err = model.ParseExtensionGroup(raw); err != nil {
				return cmdErr(err, output.ErrValidation)
			}
		}
		if err := validation.New().Validate(t); err != nil {
			return err
		}
		if err := store.UpdateAttachmentType(cmd.Context(), t); err != nil {
			return err
		}
		getWriter(cmd).Success(t, fmt.Sprintf("Updated attachment type %s: %s (%s)", model.FormatID(t.ID), t.Name, t.FileExtension))
		return nil
	},
}

func init() {
	attachmentAddCmd.Flags().StringP("type", "t", "", "Attachment type ID")
	attachmentListCmd.Flags().StringP("board", "b", "", "Board ID")
	attachmentEditCmd.Flags().StringP("name", "n", "", "New name")
	attachmentEditCmd.Flags().String("url", "", "New file URL")
	attachmentEditCmd.Flags().StringP("type", "t", "", "Attachment type ID")
	attachmentTypeEditCmd.Flags().StringP("name", "n", "", "New name")
	attachmentTypeEditCmd.Flags().String("group", "", "Extension group: images or documents")

	typeDeleteCmd := newDeleteCmd("attachment type", "", (*db.Store).DeleteAttachmentType)
	typeDeleteCmd.Use = "type-delete <id>"
	attachmentCmd.AddCommand(attachmentAddCmd, attachmentListCmd, attachmentEditCmd,
		newDeleteCmd("attachment", "", (*db.Store).DeleteAttachment),
		attachmentTypesCmd, attachmentTypeCreateCmd, attachmentTypeEditCmd, typeDeleteCmd)
	rootCmd.AddCommand(attachmentCmd)
}
