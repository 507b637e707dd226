package inventory

import (
	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
	"go.uber.org/zap"
)

func (i *Inventory) listSites() ([]models.Site, error) {
	var sites []models.Site
	err := i.Db.Conn.Find(&sites).Error
	return sites, err
}

func (i *Inventory) getSite(id uint) (*models.Site, error) {
	var site models.Site
	if err := i.Db.Conn.Preload("Devices.DeviceType").First(&site, id).Error; err != nil {
		return nil, notFoundOr(err, "Site")
	}
	return &site, nil
}

func (i *Inventory) createSite(site *models.Site) error {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySite),
	)

	if err := i.Db.Conn.Create(site).Error; err != nil {
		return err
	}

	logger.Info("Created site", zap.Reflect("site", site))
	return nil
}

func (i *Inventory) updateSite(id uint, name string) (*models.Site, error) {
	var site models.Site
	if err := i.Db.Conn.First(&site, id).Error; err != nil {
		return nil, notFoundOr(err, "Site")
	}

	site.Name = name
	if err := i.Db.Conn.Save(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// deleteSite relies on the store's cascading foreign keys: the site's devices
// and their measurements go with it in one statement.
func (i *Inventory) deleteSite(id uint) (*models.Site, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySite),
	)

	var site models.Site
	if err := i.Db.Conn.First(&site, id).Error; err != nil {
		return nil, notFoundOr(err, "Site")
	}

	if err := i.Db.Conn.Delete(&site).Error; err != nil {
		return nil, err
	}

	logger.Info("Deleted site", zap.Uint("site_id", id), zap.String("name", site.Name))
	return &site, nil
}

type ISiteImpl struct {
	inv *Inventory
}

func (is *ISiteImpl) ListSites() ([]models.Site, error) {
	return is.inv.listSites()
}

func (is *ISiteImpl) GetSite(id uint) (*models.Site, error) {
	return is.inv.getSite(id)
}

func (is *ISiteImpl) CreateSite(site *models.Site) error {
	return is.inv.createSite(site)
}

func (is *ISiteImpl) UpdateSite(id uint, name string) (*models.Site, error) {
	return is.inv.updateSite(id, name)
}

func (is *ISiteImpl) DeleteSite(id uint) (*models.Site, error) {
	return is.inv.deleteSite(id)
}

func (i *Inventory) GetISite() ISite {
	return &ISiteImpl{inv: i}
}
